package news

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/newsroom/internal/middleware/authjwt"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/internal/types"
	"github.com/qolzam/newsroom/news/handlers"
)

// NewsHandlers holds all the handlers this router needs.
type NewsHandlers struct {
	NewsHandler *handlers.NewsHandler
}

// RegisterRoutes is the single entry point for setting up news routes.
// Reads are public; every mutation requires a valid JWT.
func RegisterRoutes(app *fiber.App, h *NewsHandlers, cfg *platformconfig.Config) {
	jwtMiddleware := authjwt.New(authjwt.Config{
		PublicKey:   cfg.JWT.PublicKey,
		ClaimKey:    types.ClaimKey,
		UserCtxName: types.UserCtxName,
	})

	group := app.Group("/news")

	// --- Public read routes ---
	group.Get("/", h.NewsHandler.QueryNews)
	group.Get("/user/:userId", h.NewsHandler.QueryNewsByUser)

	// --- Authenticated mutation routes ---
	authGroup := group.Group("", jwtMiddleware)
	authGroup.Post("/", h.NewsHandler.CreateNews)
	authGroup.Put("/:newsId", h.NewsHandler.UpdateNews)
	authGroup.Post("/:newsId/images", h.NewsHandler.AddImages)
	authGroup.Delete("/:newsId/images/:filename", h.NewsHandler.RemoveImage)
	authGroup.Delete("/:newsId", h.NewsHandler.DeleteNews)

	// Parameterized read route registered last to avoid shadowing.
	group.Get("/:newsId", h.NewsHandler.GetNews)
}
