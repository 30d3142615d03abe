package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/finance/domain"
)

const uniqueViolationCode = "23505"

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	query := "SELECT id, name, description, user_id FROM categories WHERE user_id = $1"
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("could not query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.OwnerID); err != nil {
			return nil, fmt.Errorf("could not scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindOne(ctx context.Context, categoryID, ownerID uuid.UUID) (*domain.Category, error) {
	query := "SELECT id, name, description, user_id FROM categories WHERE id = $1 AND user_id = $2"

	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, categoryID, ownerID).
		Scan(&category.ID, &category.Name, &category.Description, &category.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not query category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) InsertOne(ctx context.Context, category domain.Category) error {
	query := "INSERT INTO categories (id, name, description, user_id) VALUES ($1, $2, $3, $4)"
	_, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Description, category.OwnerID)
	if err != nil {
		return writeError("insert category", err)
	}
	return nil
}

// InsertMany writes all categories with one multi-row INSERT inside a
// transaction.
func (r *CategoryRepository) InsertMany(ctx context.Context, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	values := make([]string, 0, len(categories))
	args := make([]interface{}, 0, len(categories)*4)
	for i, c := range categories {
		n := i * 4
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4))
		args = append(args, c.ID, c.Name, c.Description, c.OwnerID)
	}
	query := "INSERT INTO categories (id, name, description, user_id) VALUES " + strings.Join(values, ", ")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return writeError("insert categories", err)
	}
	if err := tx.Commit(); err != nil {
		return writeError("commit categories", err)
	}
	return nil
}

func (r *CategoryRepository) ReplaceOne(ctx context.Context, category domain.Category) error {
	query := "UPDATE categories SET name = $1, description = $2 WHERE id = $3 AND user_id = $4"
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Description, category.ID, category.OwnerID)
	if err != nil {
		return writeError("update category", err)
	}
	return expectAffected(res)
}

func (r *CategoryRepository) DeleteOne(ctx context.Context, categoryID, ownerID uuid.UUID) error {
	query := "DELETE FROM categories WHERE id = $1 AND user_id = $2"
	res, err := r.db.ExecContext(ctx, query, categoryID, ownerID)
	if err != nil {
		return fmt.Errorf("could not delete category: %w", err)
	}
	return expectAffected(res)
}

// writeError turns a hit on the (name, user_id) unique index into
// ErrCategoryAlreadyExists.
func writeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return appErrors.ErrCategoryAlreadyExists
	}
	return fmt.Errorf("could not %s: %w", op, err)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrCategoryNotFound
	}
	return nil
}
