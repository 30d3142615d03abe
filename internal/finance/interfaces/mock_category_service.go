package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseManager/internal/finance/domain"
)

// MockCategoryService returns canned results and records the last call.
type MockCategoryService struct {
	categories []domain.CategoryDto
	err        error

	lastOwnerID    uuid.UUID
	lastCategoryID uuid.UUID
	lastRequests   []domain.CategoryRequest
}

func (m *MockCategoryService) List(_ context.Context, ownerID uuid.UUID) ([]domain.CategoryDto, error) {
	m.lastOwnerID = ownerID
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *MockCategoryService) Create(_ context.Context, ownerID uuid.UUID, req domain.CategoryRequest) (*domain.CategoryDto, error) {
	m.lastOwnerID = ownerID
	m.lastRequests = []domain.CategoryRequest{req}
	if m.err != nil {
		return nil, m.err
	}
	return &domain.CategoryDto{ID: uuid.New(), Name: req.Name, Description: req.Description}, nil
}

func (m *MockCategoryService) CreateBatch(_ context.Context, ownerID uuid.UUID, reqs []domain.CategoryRequest) ([]domain.CategoryDto, error) {
	m.lastOwnerID = ownerID
	m.lastRequests = reqs
	if m.err != nil {
		return nil, m.err
	}
	dtos := make([]domain.CategoryDto, 0, len(reqs))
	for _, req := range reqs {
		dtos = append(dtos, domain.CategoryDto{ID: uuid.New(), Name: req.Name, Description: req.Description})
	}
	return dtos, nil
}

func (m *MockCategoryService) Update(_ context.Context, categoryID, ownerID uuid.UUID, req domain.CategoryRequest) (*domain.CategoryDto, error) {
	m.lastOwnerID = ownerID
	m.lastCategoryID = categoryID
	m.lastRequests = []domain.CategoryRequest{req}
	if m.err != nil {
		return nil, m.err
	}
	return &domain.CategoryDto{ID: categoryID, Name: req.Name, Description: req.Description}, nil
}

func (m *MockCategoryService) Delete(_ context.Context, categoryID, ownerID uuid.UUID) error {
	m.lastOwnerID = ownerID
	m.lastCategoryID = categoryID
	return m.err
}
