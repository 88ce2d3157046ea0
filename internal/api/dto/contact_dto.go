package dto

import "github.com/spec-kit/user-directory/internal/domain"

// ContactResponse is a contact with its 1-based position in the book.
// Position is omitted for a single contact outside a listing.
type ContactResponse struct {
	Position int    `json:"position,omitempty"`
	Name     string `json:"name"`
	Number   string `json:"number"`
	Email    string `json:"email"`
}

// ContactListResponse lists the contact book. Message is set when it is empty.
type ContactListResponse struct {
	Data    []ContactResponse `json:"data"`
	Message string            `json:"message,omitempty"`
}

// NewContactResponse maps a stored contact.
func NewContactResponse(contact domain.Contact) ContactResponse {
	return ContactResponse{
		Name:   contact.Name,
		Number: contact.Number,
		Email:  contact.Email,
	}
}

// NewContactListResponse numbers contacts from 1 in insertion order.
func NewContactListResponse(contacts []domain.Contact) ContactListResponse {
	resp := ContactListResponse{Data: make([]ContactResponse, 0, len(contacts))}
	for i, contact := range contacts {
		item := NewContactResponse(contact)
		item.Position = i + 1
		resp.Data = append(resp.Data, item)
	}
	if len(contacts) == 0 {
		resp.Message = "No contacts available"
	}
	return resp
}
