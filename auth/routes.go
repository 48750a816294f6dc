package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/newsroom/auth/handlers"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
)

// AuthHandlers holds all the handlers this router needs.
type AuthHandlers struct {
	AuthHandler *handlers.AuthHandler
}

// RegisterRoutes is the single entry point for setting up auth routes.
// All auth routes are public.
func RegisterRoutes(app *fiber.App, h *AuthHandlers, cfg *platformconfig.Config) {
	group := app.Group("/auth")

	group.Post("/signup", h.AuthHandler.Signup)
	group.Post("/login", h.AuthHandler.Login)
	group.Post("/logout", h.AuthHandler.Logout)
}
