package auth

import (
	"encoding/json"
	"net/http"

	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/logging"
)

type Handler struct {
	authService Service
	logger      logging.Logger
}

func NewHandler(authService Service, logger logging.Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if appErrors.IsDomainError(err) {
		writeJSONError(w, http.StatusBadRequest, appErrors.PublicMessage(err))
		return
	}
	h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSONError(w, http.StatusInternalServerError, appErrors.MsgInternalError)
}

func decodeCredentials(r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, false
	}
	return req, req.Email != "" && req.Password != ""
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, appErrors.ErrInvalidArgument.Error())
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, appErrors.ErrInvalidArgument.Error())
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
