package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/media-library-service/internal/api/dto"
	"github.com/spec-kit/media-library-service/internal/auth"
	"github.com/spec-kit/media-library-service/internal/service"
	apperrors "github.com/spec-kit/media-library-service/pkg/util/errorutil"
)

// AuthHandler exposes login and session introspection.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login. Every failure collapses into the same
// generic rejection.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	identity, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": identity,
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Session handles GET /auth/session for authenticated callers.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no session")
	}
	return c.JSON(identity)
}
