package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// Granular rejection causes of token verification. They are kept for
// logging and tests; the service layer collapses all of them into a single
// unauthorized outcome before anything reaches a client.
var (
	ErrInvalidAuthHeader = errors.New("invalid authorization header")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrTokenExpired      = errors.New("token expired")
	ErrNoSubject         = errors.New("token has no subject")
)

// TokenManager issues and verifies HS256-signed bearer tokens. The signing
// secret is injected once at construction and never read from the
// environment at call time.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token carrying the subject, issued-at and expiry
// claims. Expiry is the configured TTL from now.
func (m *TokenManager) Issue(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	return token.SignedString(m.secret)
}

// Verify validates the token's signature and expiry against the current
// wall clock and returns the subject claim. Failures are reported as one of
// ErrTokenMalformed, ErrInvalidSignature, ErrTokenExpired or ErrNoSubject.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrInvalidSignature
	case err != nil:
		return "", ErrTokenMalformed
	case !token.Valid:
		return "", ErrTokenMalformed
	}

	if claims.Subject == "" {
		return "", ErrNoSubject
	}

	return claims.Subject, nil
}

// ParseBearer unwraps a token from its "Bearer " transport envelope.
// Anything without the exact prefix is rejected with ErrInvalidAuthHeader.
func ParseBearer(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}
