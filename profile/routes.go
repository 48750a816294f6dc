package profile

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/newsroom/internal/middleware/authjwt"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/internal/types"
	"github.com/qolzam/newsroom/profile/handlers"
)

// ProfileHandlers holds all the handlers this router needs.
type ProfileHandlers struct {
	ProfileHandler *handlers.ProfileHandler
}

// RegisterRoutes is the single entry point for setting up profile routes.
// Profile reads are public; the /my routes require a valid JWT.
func RegisterRoutes(app *fiber.App, h *ProfileHandlers, cfg *platformconfig.Config) {
	jwtMiddleware := authjwt.New(authjwt.Config{
		PublicKey:   cfg.JWT.PublicKey,
		ClaimKey:    types.ClaimKey,
		UserCtxName: types.UserCtxName,
	})

	group := app.Group("/profile")

	// --- Authenticated self routes ---
	authGroup := group.Group("", jwtMiddleware)
	authGroup.Get("/my", h.ProfileHandler.GetMyProfile)
	authGroup.Put("/my", h.ProfileHandler.UpdateMyProfile)
	authGroup.Put("/my/avatar", h.ProfileHandler.SetAvatar)
	authGroup.Delete("/my/avatar", h.ProfileHandler.ClearAvatar)

	// Parameterized read route registered last to avoid shadowing.
	group.Get("/:userId", h.ProfileHandler.GetProfile)
}
