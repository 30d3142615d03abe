package auth

import (
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signMapClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)
	return token
}

func TestExtractOwnerID_FromIssuedToken(t *testing.T) {
	u := testUser()
	token, _, err := NewJWTManager(testTokenConfig).Issue(u)
	require.NoError(t, err)

	ownerID, err := ExtractOwnerID("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, ownerID)
}

func TestExtractOwnerID_MissingOrMalformedHeader(t *testing.T) {
	token := signMapClaims(t, jwt.MapClaims{"nameid": uuid.NewString()})

	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"no scheme", token},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"lowercase scheme", "bearer " + token},
		{"scheme only", "Bearer "},
		{"not a jwt", "Bearer definitely-not-a-token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractOwnerID(tc.header)
			assert.ErrorIs(t, err, appErrors.ErrMissingOrMalformedToken)
		})
	}
}

func TestExtractOwnerID_MissingOwnerClaim(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"absent", jwt.MapClaims{"sub": uuid.NewString()}},
		{"empty", jwt.MapClaims{"nameid": ""}},
		{"not a uuid", jwt.MapClaims{"nameid": "42"}},
		{"not a string", jwt.MapClaims{"nameid": 42}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractOwnerID("Bearer " + signMapClaims(t, tc.claims))
			assert.ErrorIs(t, err, appErrors.ErrMissingOwnerClaim)
		})
	}
}

// Signature and expiry are the middleware's job; the extractor only decodes.
func TestExtractOwnerID_DoesNotVerifySignatureOrExpiry(t *testing.T) {
	ownerID := uuid.New()
	token := signMapClaims(t, jwt.MapClaims{"nameid": ownerID.String(), "exp": 1})

	got, err := ExtractOwnerID("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
}
