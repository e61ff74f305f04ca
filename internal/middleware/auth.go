package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/HardcoreSInd/ReazComu/internal/models"
	"github.com/HardcoreSInd/ReazComu/internal/utils"
)

// AuthMiddleware validates the session cookie and rejects any data fetch
// without a valid session at the boundary; nothing behind it ever sees an
// unauthenticated request.
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies("token")
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	c.Locals("userID", claims.UserID)
	c.Locals("name", claims.Name)
	c.Locals("email", claims.Email)
	c.Locals("avatar", claims.Avatar)

	return c.Next()
}

// CurrentUser rebuilds the authenticated profile from the request
// context. Only valid behind AuthMiddleware.
func CurrentUser(c *fiber.Ctx) models.User {
	return models.User{
		ID:     localString(c, "userID"),
		Name:   localString(c, "name"),
		Email:  localString(c, "email"),
		Avatar: localString(c, "avatar"),
	}
}

func localString(c *fiber.Ctx, key string) string {
	value, ok := c.Locals(key).(string)
	if !ok {
		return ""
	}
	return value
}
