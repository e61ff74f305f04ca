package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/HardcoreSInd/ReazComu/internal/middleware"
)

// GetMe returns the authenticated user's profile.
func GetMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}
