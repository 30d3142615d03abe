package user

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	bcryptCost        = 12
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateResult mirrors an identity provider's outcome: policy violations are
// reported as messages, not as an error.
type CreateResult struct {
	Succeeded bool
	Errors    []string
}

// Service is the credential store: lookups, password verification and
// account creation under the password/email policy.
type Service interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	VerifyPassword(user *User, password string) bool
	Create(ctx context.Context, user *User, password string) (CreateResult, error)
}

type service struct {
	repo Repository
	cost int
}

func NewUserService(repo Repository) Service {
	return &service{
		repo: repo,
		cost: bcryptCost,
	}
}

func hashPassword(password string, cost int) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hashedPasswordBytes), err
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

// FindByEmail returns nil, nil when no account uses the address.
func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.getUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *service) VerifyPassword(user *User, password string) bool {
	if user == nil {
		return false
	}
	return doPasswordsMatch(user.PasswordHash, password)
}

func (s *service) Create(ctx context.Context, user *User, password string) (CreateResult, error) {
	violations := validateEmailAddress(user.Email)
	violations = append(violations, validatePassword(password)...)

	existing, err := s.FindByEmail(ctx, user.Email)
	if err != nil {
		return CreateResult{}, err
	}
	if existing != nil {
		violations = append(violations, duplicateEmailMessage(user.Email))
	}

	if len(violations) > 0 {
		return CreateResult{Errors: violations}, nil
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.PasswordHash, err = hashPassword(password, s.cost)
	if err != nil {
		return CreateResult{}, fmt.Errorf("could not hash password: %w", err)
	}

	if err := s.repo.createUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return CreateResult{Errors: []string{duplicateEmailMessage(user.Email)}}, nil
		}
		return CreateResult{}, err
	}
	return CreateResult{Succeeded: true}, nil
}

func duplicateEmailMessage(email string) string {
	return fmt.Sprintf("Email '%s' is already taken.", email)
}

func validateEmailAddress(email string) []string {
	if err := checkmail.ValidateFormat(email); err != nil {
		return []string{fmt.Sprintf("Email '%s' is invalid.", email)}
	}
	return nil
}

func validatePassword(password string) []string {
	var violations []string
	if len(password) < minPasswordLength {
		violations = append(violations, fmt.Sprintf("Passwords must be at least %d characters.", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasDigit {
		violations = append(violations, "Passwords must have at least one digit ('0'-'9').")
	}
	if !hasLower {
		violations = append(violations, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !hasUpper {
		violations = append(violations, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	return violations
}
