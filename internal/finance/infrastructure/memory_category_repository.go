package infrastructure

import (
	"context"
	"sync"

	"github.com/google/uuid"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/finance/domain"
)

// MemoryCategoryRepository keeps categories in insertion order and enforces
// the same per-owner name uniqueness as the categories table.
type MemoryCategoryRepository struct {
	mu         sync.Mutex
	Categories []domain.Category
	// FailWith, when set, is returned by every call.
	FailWith error
}

func NewMemoryCategoryRepository(seed ...domain.Category) *MemoryCategoryRepository {
	return &MemoryCategoryRepository{Categories: append([]domain.Category(nil), seed...)}
}

func (m *MemoryCategoryRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var owned []domain.Category
	for _, c := range m.Categories {
		if c.OwnerID == ownerID {
			owned = append(owned, c)
		}
	}
	return owned, nil
}

func (m *MemoryCategoryRepository) FindOne(_ context.Context, categoryID, ownerID uuid.UUID) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	if i := m.indexOf(categoryID, ownerID); i >= 0 {
		found := m.Categories[i]
		return &found, nil
	}
	return nil, nil
}

func (m *MemoryCategoryRepository) InsertOne(ctx context.Context, category domain.Category) error {
	return m.InsertMany(ctx, []domain.Category{category})
}

func (m *MemoryCategoryRepository) InsertMany(_ context.Context, categories []domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	staged := append([]domain.Category(nil), m.Categories...)
	for _, c := range categories {
		if nameTaken(staged, c, uuid.Nil) {
			return appErrors.ErrCategoryAlreadyExists
		}
		staged = append(staged, c)
	}
	m.Categories = staged
	return nil
}

func (m *MemoryCategoryRepository) ReplaceOne(_ context.Context, category domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	i := m.indexOf(category.ID, category.OwnerID)
	if i < 0 {
		return appErrors.ErrCategoryNotFound
	}
	if nameTaken(m.Categories, category, category.ID) {
		return appErrors.ErrCategoryAlreadyExists
	}
	m.Categories[i] = category
	return nil
}

func (m *MemoryCategoryRepository) DeleteOne(_ context.Context, categoryID, ownerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	i := m.indexOf(categoryID, ownerID)
	if i < 0 {
		return appErrors.ErrCategoryNotFound
	}
	m.Categories = append(m.Categories[:i], m.Categories[i+1:]...)
	return nil
}

func (m *MemoryCategoryRepository) indexOf(categoryID, ownerID uuid.UUID) int {
	for i, c := range m.Categories {
		if c.ID == categoryID && c.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

func nameTaken(categories []domain.Category, candidate domain.Category, skipID uuid.UUID) bool {
	for _, c := range categories {
		if c.ID != skipID && c.OwnerID == candidate.OwnerID && c.Name == candidate.Name {
			return true
		}
	}
	return false
}
