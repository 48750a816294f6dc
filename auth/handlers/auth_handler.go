package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/newsroom/auth/errors"
	"github.com/qolzam/newsroom/auth/models"
	"github.com/qolzam/newsroom/auth/services"
	"github.com/qolzam/newsroom/auth/validation"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
)

// accessTokenCookie is the cookie web clients authenticate with.
const accessTokenCookie = "access_token"

// AuthHandler handles all auth-related HTTP requests
type AuthHandler struct {
	authService services.AuthService
	config      *platformconfig.Config
}

// NewAuthHandler creates a new AuthHandler with injected dependencies
func NewAuthHandler(authService services.AuthService, cfg *platformconfig.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

// Signup handles account creation
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if err := validation.ValidateSignupRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	result, err := h.authService.Signup(c.Context(), &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	h.setTokenCookie(c, result)
	return c.Status(http.StatusCreated).JSON(result.ToResponse())
}

// Login handles credential verification and token issuance
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if err := validation.ValidateLoginRequest(&req); err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	result, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	h.setTokenCookie(c, result)
	return c.JSON(result.ToResponse())
}

// Logout clears the access token cookie
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, result *models.AuthResult) {
	c.Cookie(&fiber.Cookie{
		Name:     accessTokenCookie,
		Value:    result.Token,
		Expires:  result.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
