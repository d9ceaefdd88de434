package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/media-library-service/internal/api/dto"
	"github.com/spec-kit/media-library-service/internal/service"
	apperrors "github.com/spec-kit/media-library-service/pkg/util/errorutil"
)

// SignupHandler exposes the gated self-service signup flow.
type SignupHandler struct {
	signup *service.SignupService
}

// NewSignupHandler constructs handler.
func NewSignupHandler(signupService *service.SignupService) *SignupHandler {
	return &SignupHandler{signup: signupService}
}

// Signup handles POST /auth/signup.
func (h *SignupHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	identity, err := h.signup.Signup(c.UserContext(), req.Token, req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account created successfully",
		"user":    identity,
	})
}

// Availability handles GET /auth/signup.
func (h *SignupHandler) Availability(c *fiber.Ctx) error {
	availability, err := h.signup.Availability(c.UserContext(), c.Query("token"))
	if err != nil {
		return err
	}
	return c.JSON(availability)
}
