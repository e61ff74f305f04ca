package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/HardcoreSInd/ReazComu/internal/middleware"
	"github.com/HardcoreSInd/ReazComu/internal/models"
)

// GetMessages returns the conversation history with a contact. Message
// storage is out of scope for the relay, so this serves the fixture
// exchange the client expects from the history collaborator.
func GetMessages(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	contactID := c.Params("contactId")

	now := time.Now().UTC()
	messages := []models.Message{
		{
			From:      contactID,
			To:        user.ID,
			Text:      "Hai, apa kabar?",
			Timestamp: now.Add(-time.Minute).Format(time.RFC3339),
		},
		{
			From:      user.ID,
			To:        contactID,
			Text:      "Baik, terima kasih!",
			Timestamp: now.Format(time.RFC3339),
		},
	}

	return c.JSON(messages)
}
