package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
)

type contextKey string

const ownerIDKey contextKey = "ownerID"

type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

// OwnerIDFromContext returns the owner id stored by JWTAccessTokenMiddleware.
func OwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(uuid.UUID)
	return ownerID, ok
}

// WithOwnerID stores ownerID the way JWTAccessTokenMiddleware does.
func WithOwnerID(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// JWTAccessTokenMiddleware verifies the bearer token (signature, expiry,
// issuer, audience) and only then extracts the owner id for the handler.
func (s *service) JWTAccessTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			tokenString, err := bearerToken(authHeader)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, err.Error())
				return
			}

			if _, err := s.jwtManager.Verify(tokenString); err != nil {
				s.logger.Info(r.Context(), "rejected access token", "path", r.URL.Path)
				writeJSONError(w, http.StatusUnauthorized, appErrors.ErrInvalidToken.Error())
				return
			}

			ownerID, err := ExtractOwnerID(authHeader)
			if err != nil {
				status := http.StatusBadRequest
				if errors.Is(err, appErrors.ErrMissingOrMalformedToken) {
					status = http.StatusUnauthorized
				}
				writeJSONError(w, status, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		ErrorMessage: message,
	})
}
