package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/media-library-service/internal/domain"
	apperrors "github.com/spec-kit/media-library-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Middleware validates bearer tokens and rehydrates session identities.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. The identity is
// rebuilt from the token alone; no store call happens per request.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(identityKey, claims.Identity())
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
