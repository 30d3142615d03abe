package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

type Repository interface {
	createUser(ctx context.Context, user *User) error
	getUserByEmail(ctx context.Context, email string) (*User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) createUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Email, user.DisplayName, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *userRepository) getUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, display_name, password_hash, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	var user User
	var id string
	err := r.db.QueryRowContext(ctx, query, email).Scan(&id, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}

	user.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("could not parse user id %q: %w", id, err)
	}
	return &user, nil
}
