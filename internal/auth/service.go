package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/logging"
	"github.com/sebuszqo/ExpenseManager/internal/user"
)

// CredentialStore is the identity provider the service delegates to. Hashing
// and the password policy live behind it.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	VerifyPassword(user *user.User, password string) bool
	Create(ctx context.Context, user *user.User, password string) (user.CreateResult, error)
}

type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	Expires     time.Time `json:"expires"`
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
}

type RegisterResult struct {
	UserID uuid.UUID `json:"userId"`
}

type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, email, password string) (*RegisterResult, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	credentials CredentialStore
	jwtManager  JWTManagerInterface
	logger      logging.Logger
}

func NewAuthService(credentials CredentialStore, jwtManager JWTManagerInterface, logger logging.Logger) Service {
	return &service{
		credentials: credentials,
		jwtManager:  jwtManager,
		logger:      logger.With("component", "auth"),
	}
}

// Login answers an unknown email and a wrong password with the same error so
// callers cannot probe for registered addresses.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, appErrors.ErrInvalidArgument
	}

	existingUser, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error(ctx, "could not look up user", "error", err)
		return nil, appErrors.Unexpected("find user by email", err)
	}
	if existingUser == nil {
		s.logger.Info(ctx, "login rejected: unknown email")
		return nil, appErrors.ErrInvalidCredentials
	}

	if !s.credentials.VerifyPassword(existingUser, password) {
		s.logger.Info(ctx, "login rejected: password mismatch", "user_id", existingUser.ID)
		return nil, appErrors.ErrInvalidCredentials
	}

	accessToken, expires, err := s.jwtManager.Issue(existingUser)
	if err != nil {
		s.logger.Error(ctx, "could not issue access token", "user_id", existingUser.ID, "error", err)
		return nil, appErrors.Unexpected("issue access token", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", existingUser.ID)
	return &LoginResult{
		AccessToken: accessToken,
		Expires:     expires,
		UserID:      existingUser.ID,
		Email:       existingUser.Email,
	}, nil
}

func (s *service) Register(ctx context.Context, email, password string) (*RegisterResult, error) {
	if email == "" || password == "" {
		return nil, appErrors.ErrInvalidArgument
	}

	existingUser, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error(ctx, "could not look up user", "error", err)
		return nil, appErrors.Unexpected("find user by email", err)
	}
	if existingUser != nil {
		return nil, appErrors.ErrDuplicateAccount
	}

	newUser := &user.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: email,
	}
	result, err := s.credentials.Create(ctx, newUser, password)
	if err != nil {
		s.logger.Error(ctx, "could not create user", "error", err)
		return nil, appErrors.Unexpected("create user", err)
	}
	if !result.Succeeded {
		s.logger.Info(ctx, "registration rejected", "violations", len(result.Errors))
		return nil, appErrors.RegistrationFailed(result.Errors)
	}

	s.logger.Info(ctx, "user registered", "user_id", newUser.ID)
	return &RegisterResult{UserID: newUser.ID}, nil
}
