package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseManager/internal/auth"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/finance/domain"
	"github.com/sebuszqo/ExpenseManager/internal/logging"
)

type CategoryServiceInterface interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.CategoryDto, error)
	Create(ctx context.Context, ownerID uuid.UUID, req domain.CategoryRequest) (*domain.CategoryDto, error)
	CreateBatch(ctx context.Context, ownerID uuid.UUID, reqs []domain.CategoryRequest) ([]domain.CategoryDto, error)
	Update(ctx context.Context, categoryID, ownerID uuid.UUID, req domain.CategoryRequest) (*domain.CategoryDto, error)
	Delete(ctx context.Context, categoryID, ownerID uuid.UUID) error
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	logger       logging.Logger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	logger logging.Logger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	categories, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req domain.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, appErrors.ErrInvalidArgument.Error())
		return
	}

	category, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategories(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var reqs []domain.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		h.respondError(w, http.StatusBadRequest, appErrors.ErrInvalidArgument.Error())
		return
	}

	categories, err := h.service.CreateBatch(r.Context(), ownerID, reqs)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	categoryID, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	var req domain.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, appErrors.ErrInvalidArgument.Error())
		return
	}

	category, err := h.service.Update(r.Context(), categoryID, ownerID, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	categoryID, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), categoryID, ownerID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, true)
}

func (h *CategoryHandler) ownerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, appErrors.ErrMissingOwnerClaim.Error())
		return uuid.Nil, false
	}
	return ownerID, true
}

func (h *CategoryHandler) categoryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	categoryID, ok := pathUUID(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, appErrors.ErrInvalidArgument.Error())
		return uuid.Nil, false
	}
	return categoryID, true
}

func (h *CategoryHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if appErrors.IsDomainError(err) {
		h.respondError(w, http.StatusBadRequest, appErrors.PublicMessage(err))
		return
	}
	h.logger.Error(r.Context(), "category request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	h.respondError(w, http.StatusInternalServerError, appErrors.MsgInternalError)
}
