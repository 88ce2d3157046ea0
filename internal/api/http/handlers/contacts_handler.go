package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-directory/internal/api/dto"
	"github.com/spec-kit/user-directory/internal/service"
)

// ContactsHandler exposes the in-memory contact book.
type ContactsHandler struct {
	contacts *service.ContactService
}

// NewContactsHandler constructs handler.
func NewContactsHandler(contacts *service.ContactService) *ContactsHandler {
	return &ContactsHandler{contacts: contacts}
}

// Add handles POST /contacts.
func (h *ContactsHandler) Add(c *fiber.Ctx) error {
	payload, err := bodyPayload(c)
	if err != nil {
		return err
	}
	contact, err := h.contacts.AddContact(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewContactResponse(contact)})
}

// List handles GET /contacts.
func (h *ContactsHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.NewContactListResponse(h.contacts.ListContacts(c.UserContext())))
}
