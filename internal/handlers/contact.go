package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/HardcoreSInd/ReazComu/internal/models"
)

// seedContacts is the development roster. A real deployment swaps this
// for an actual contacts backend; the relay core does not care either
// way.
func seedContacts() []models.Contact {
	now := time.Now().UTC()
	return []models.Contact{
		{
			ID:              "12345",
			Name:            "John Doe",
			Avatar:          "https://i.pravatar.cc/150?img=1",
			LastMessage:     "Hai, apa kabar?",
			LastMessageTime: now.Format(time.RFC3339),
		},
		{
			ID:              "67890",
			Name:            "Jane Smith",
			Avatar:          "https://i.pravatar.cc/150?img=2",
			LastMessage:     "Meeting besok jam 10",
			LastMessageTime: now.Add(-time.Hour).Format(time.RFC3339),
		},
	}
}

// GetContacts returns the user's roster with each contact's online flag
// resolved live from the hub.
func GetContacts(c *fiber.Ctx) error {
	contacts := lo.Map(seedContacts(), func(contact models.Contact, _ int) models.Contact {
		contact.Online = WSHub.IsOnline(contact.ID)
		return contact
	})
	return c.JSON(contacts)
}
