package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/media-library-service/internal/domain"
)

// TokenManager handles issuing and validating signed session tokens.
// Tokens are stateless: no server-side session table exists, expiry is
// the only bound on their lifetime.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// SessionClaims is the identity bundle carried in a session token.
type SessionClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Identity rebuilds the domain identity from verified claims.
func (c *SessionClaims) Identity() *domain.Identity {
	return &domain.Identity{ID: c.ID, Email: c.Email, Name: c.Name}
}

// GenerateToken builds and signs a session token for the identity.
func (tm *TokenManager) GenerateToken(identity *domain.Identity) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &SessionClaims{
		ID:    identity.ID,
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry, returning the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
