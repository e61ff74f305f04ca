package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/HardcoreSInd/ReazComu/internal/handlers"
	"github.com/HardcoreSInd/ReazComu/internal/middleware"
)

// SetupRoutes configures all application routes. handlers.Init must have
// run first.
func SetupRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "ReazComu is running",
		})
	})

	// Login flow (public)
	auth := app.Group("/auth")
	auth.Get("/google", middleware.StrictRateLimiter(), handlers.GoogleLogin)
	auth.Get("/google/callback", handlers.GoogleOAuthCallback)
	auth.Post("/logout", handlers.Logout)

	// Collaborator endpoints (protected)
	api := app.Group("/api", middleware.ModerateRateLimiter())
	api.Get("/user", middleware.AuthMiddleware, handlers.GetMe)
	api.Get("/contacts", middleware.AuthMiddleware, handlers.GetContacts)
	api.Get("/messages/:contactId", middleware.AuthMiddleware, handlers.GetMessages)

	// Relay endpoint (protected)
	app.Get("/ws", middleware.AuthMiddleware, handlers.WebSocketUpgrade, websocket.New(handlers.WebSocketHandler))
	api.Get("/ws/stats", middleware.AuthMiddleware, handlers.WebSocketStats)
}
