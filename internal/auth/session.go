package auth

import (
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
)

const bearerPrefix = "Bearer "

// ExtractOwnerID reads the owner id out of an Authorization header value.
//
// The token's signature and expiry are NOT checked here; callers must run
// JWTManager.Verify first (JWTAccessTokenMiddleware does).
func ExtractOwnerID(rawAuthorization string) (uuid.UUID, error) {
	tokenString, err := bearerToken(rawAuthorization)
	if err != nil {
		return uuid.Nil, err
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return uuid.Nil, appErrors.ErrMissingOrMalformedToken
	}

	raw, ok := claims[ownerClaim].(string)
	if !ok || raw == "" {
		return uuid.Nil, appErrors.ErrMissingOwnerClaim
	}

	ownerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErrors.ErrMissingOwnerClaim
	}
	return ownerID, nil
}

func bearerToken(rawAuthorization string) (string, error) {
	if strings.TrimSpace(rawAuthorization) == "" || !strings.HasPrefix(rawAuthorization, bearerPrefix) {
		return "", appErrors.ErrMissingOrMalformedToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(rawAuthorization, bearerPrefix))
	if token == "" {
		return "", appErrors.ErrMissingOrMalformedToken
	}
	return token, nil
}
