package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseManager/internal/config"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/user"
)

// ownerClaim carries the account id the category endpoints are scoped by.
const ownerClaim = "nameid"

type JWTManagerInterface interface {
	Issue(subject *user.User) (string, time.Time, error)
	Verify(tokenString string) (*SessionClaims, error)
}

// SessionClaims is the payload of an access token. Subject and NameID both
// hold the account id.
type SessionClaims struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	NameID string `json:"nameid"`
	jwt.StandardClaims
}

type JWTManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewJWTManager(cfg config.Token) *JWTManager {
	return &JWTManager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL(),
		now:      time.Now,
	}
}

// Issue signs an HS256 access token for subject and returns it together with
// its expiry. Every token gets a fresh jti.
func (j *JWTManager) Issue(subject *user.User) (string, time.Time, error) {
	issuedAt := j.now().UTC()
	expiresAt := time.Unix(issuedAt.Add(j.ttl).Unix(), 0).UTC()

	claims := &SessionClaims{
		Name:   subject.DisplayName,
		Email:  subject.Email,
		NameID: subject.ID.String(),
		StandardClaims: jwt.StandardClaims{
			Subject:   subject.ID.String(),
			Id:        uuid.NewString(),
			Issuer:    j.issuer,
			Audience:  j.audience,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, expiry, issuer and audience.
func (j *JWTManager) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.ErrInvalidToken
	}
	if !claims.VerifyIssuer(j.issuer, true) || !claims.VerifyAudience(j.audience, true) {
		return nil, appErrors.ErrInvalidToken
	}
	// a token without exp would otherwise never expire
	if claims.ExpiresAt == 0 {
		return nil, appErrors.ErrInvalidToken
	}

	return claims, nil
}
