package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
)

// Category is an expense category owned by a single user. Name is unique per
// owner, compared case-sensitively.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	OwnerID     uuid.UUID
}

// CategoryRequest is the client-supplied part of a category.
type CategoryRequest struct {
	Name        string `json:"categoryName"`
	Description string `json:"description"`
}

func (r CategoryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Description) == "" {
		return appErrors.ErrInvalidArgument
	}
	return nil
}

type CategoryDto struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"categoryName"`
	Description string    `json:"description"`
}

func (c Category) ToDto() CategoryDto {
	return CategoryDto{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

// CategoryRepository is the category store. Every lookup and write is scoped
// by owner; FindOne returns nil, nil when nothing matches.
type CategoryRepository interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Category, error)
	FindOne(ctx context.Context, categoryID, ownerID uuid.UUID) (*Category, error)
	InsertOne(ctx context.Context, category Category) error
	InsertMany(ctx context.Context, categories []Category) error
	ReplaceOne(ctx context.Context, category Category) error
	DeleteOne(ctx context.Context, categoryID, ownerID uuid.UUID) error
}
