package service

import (
	"context"
	"slices"
	"sync"

	"github.com/spec-kit/user-directory/internal/domain"
)

const contactNumberLength = 10

// ContactService keeps the contact book in process memory.
type ContactService struct {
	mu       sync.RWMutex
	contacts []domain.Contact
}

// NewContactService creates an empty contact book.
func NewContactService() *ContactService {
	return &ContactService{contacts: []domain.Contact{}}
}

// DecodeAddContact validates {"name": string, "number": string, "email": string}.
// All fields must be non-empty and number must be exactly ten digits.
func DecodeAddContact(payload any) (domain.Contact, error) {
	obj, err := payloadObject(payload)
	if err != nil {
		return domain.Contact{}, err
	}

	var contact domain.Contact
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"name", &contact.Name},
		{"number", &contact.Number},
		{"email", &contact.Email},
	} {
		v, err := requiredString(obj, f.key)
		if err != nil {
			return domain.Contact{}, err
		}
		if v == "" {
			return domain.Contact{}, invalidField(f.key, "must not be empty")
		}
		*f.dst = v
	}

	if !isPhoneNumber(contact.Number) {
		return domain.Contact{}, invalidField("number", "must be exactly 10 digits")
	}
	return contact, nil
}

// AddContact validates the payload and appends the contact. Slices returned
// by earlier ListContacts calls are never modified.
func (s *ContactService) AddContact(ctx context.Context, payload any) (domain.Contact, error) {
	contact, err := DecodeAddContact(payload)
	if err != nil {
		return domain.Contact{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Contact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Contact, len(s.contacts), len(s.contacts)+1)
	copy(next, s.contacts)
	s.contacts = append(next, contact)
	return contact, nil
}

// ListContacts returns contacts in insertion order.
func (s *ContactService) ListContacts(ctx context.Context) []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contacts)
}

func isPhoneNumber(number string) bool {
	if len(number) != contactNumberLength {
		return false
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}
	return true
}
