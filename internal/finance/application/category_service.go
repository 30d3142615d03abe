package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/finance/domain"
	"github.com/sebuszqo/ExpenseManager/internal/logging"
)

type CategoryService struct {
	repo   domain.CategoryRepository
	logger logging.Logger
}

func NewCategoryService(repo domain.CategoryRepository, logger logging.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		logger: logger.With("component", "categories"),
	}
}

func (s *CategoryService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.CategoryDto, error) {
	categories, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.storeError(ctx, "find categories", err)
	}

	dtos := make([]domain.CategoryDto, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, c.ToDto())
	}
	return dtos, nil
}

func (s *CategoryService) Create(ctx context.Context, ownerID uuid.UUID, req domain.CategoryRequest) (*domain.CategoryDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	candidate := newCategory(ownerID, req)
	if err := s.ensureUnique(ctx, ownerID, []domain.Category{candidate}); err != nil {
		return nil, err
	}

	if err := s.repo.InsertOne(ctx, candidate); err != nil {
		return nil, s.storeError(ctx, "insert category", err)
	}

	s.logger.Info(ctx, "category created", "user_id", ownerID, "category_id", candidate.ID)
	dto := candidate.ToDto()
	return &dto, nil
}

// CreateBatch inserts every request or none of them.
func (s *CategoryService) CreateBatch(ctx context.Context, ownerID uuid.UUID, reqs []domain.CategoryRequest) ([]domain.CategoryDto, error) {
	if len(reqs) == 0 {
		return nil, appErrors.ErrInvalidArgument
	}

	candidates := make([]domain.Category, 0, len(reqs))
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return nil, err
		}
		candidates = append(candidates, newCategory(ownerID, req))
	}

	if err := s.ensureUnique(ctx, ownerID, candidates); err != nil {
		return nil, err
	}

	if err := s.repo.InsertMany(ctx, candidates); err != nil {
		return nil, s.storeError(ctx, "insert categories", err)
	}

	s.logger.Info(ctx, "categories created", "user_id", ownerID, "count", len(candidates))
	dtos := make([]domain.CategoryDto, 0, len(candidates))
	for _, c := range candidates {
		dtos = append(dtos, c.ToDto())
	}
	return dtos, nil
}

// Update replaces name and description of an existing category. The
// uniqueness check includes the category being updated, so keeping the
// current name is reported as a duplicate.
func (s *CategoryService) Update(ctx context.Context, categoryID, ownerID uuid.UUID, req domain.CategoryRequest) (*domain.CategoryDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindOne(ctx, categoryID, ownerID)
	if err != nil {
		return nil, s.storeError(ctx, "find category", err)
	}
	if existing == nil {
		return nil, appErrors.ErrCategoryNotFound
	}

	replacement := domain.Category{
		ID:          existing.ID,
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     existing.OwnerID,
	}
	if err := s.ensureUnique(ctx, ownerID, []domain.Category{replacement}); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceOne(ctx, replacement); err != nil {
		return nil, s.storeError(ctx, "replace category", err)
	}

	s.logger.Info(ctx, "category updated", "user_id", ownerID, "category_id", categoryID)
	dto := replacement.ToDto()
	return &dto, nil
}

func (s *CategoryService) Delete(ctx context.Context, categoryID, ownerID uuid.UUID) error {
	existing, err := s.repo.FindOne(ctx, categoryID, ownerID)
	if err != nil {
		return s.storeError(ctx, "find category", err)
	}
	if existing == nil {
		return appErrors.ErrCategoryNotFound
	}

	if err := s.repo.DeleteOne(ctx, categoryID, ownerID); err != nil {
		return s.storeError(ctx, "delete category", err)
	}

	s.logger.Info(ctx, "category deleted", "user_id", ownerID, "category_id", categoryID)
	return nil
}

// ensureUnique fails when a candidate name is already stored for the owner or
// appears twice among the candidates.
func (s *CategoryService) ensureUnique(ctx context.Context, ownerID uuid.UUID, candidates []domain.Category) error {
	stored, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return s.storeError(ctx, "find categories", err)
	}

	names := make(map[string]struct{}, len(stored)+len(candidates))
	for _, c := range stored {
		if c.OwnerID == ownerID {
			names[c.Name] = struct{}{}
		}
	}

	for _, c := range candidates {
		if _, taken := names[c.Name]; taken {
			s.logger.Info(ctx, "category name already taken", "user_id", ownerID, "name", c.Name)
			return appErrors.ErrCategoryAlreadyExists
		}
		names[c.Name] = struct{}{}
	}
	return nil
}

func (s *CategoryService) storeError(ctx context.Context, op string, err error) error {
	if errors.Is(err, appErrors.ErrCategoryAlreadyExists) || errors.Is(err, appErrors.ErrCategoryNotFound) {
		return err
	}
	s.logger.Error(ctx, "category store failed", "op", op, "error", err)
	return appErrors.Unexpected(op, err)
}

func newCategory(ownerID uuid.UUID, req domain.CategoryRequest) domain.Category {
	return domain.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
}
