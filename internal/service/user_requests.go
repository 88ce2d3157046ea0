package service

import (
	"encoding/json"
	"math"

	apperrors "github.com/spec-kit/user-directory/pkg/util/errorutil"
)

// ListUsersRequest is a validated list payload. Page is the zero-based page
// index carried by the payload's "size" key.
type ListUsersRequest struct {
	Page  int64
	Limit int64
}

// Offset returns the number of records preceding the page.
func (r ListUsersRequest) Offset() int64 {
	return r.Page * r.Limit
}

// CreateUserRequest is a validated create payload.
type CreateUserRequest struct {
	Name  string
	Email string
}

// UpdateUserRequest is a validated update payload. Nil fields were not supplied.
type UpdateUserRequest struct {
	ID    string
	Name  *string
	Email *string
}

// ArchiveUserRequest is a validated archive payload.
type ArchiveUserRequest struct {
	ID string
}

// DecodeListUsers validates a list payload of the form {"size": int, "limit": int}.
func DecodeListUsers(payload any) (ListUsersRequest, error) {
	obj, err := payloadObject(payload)
	if err != nil {
		return ListUsersRequest{}, err
	}

	page, err := intField(obj, "size")
	if err != nil {
		return ListUsersRequest{}, err
	}
	limit, err := intField(obj, "limit")
	if err != nil {
		return ListUsersRequest{}, err
	}
	if page < 0 {
		return ListUsersRequest{}, invalidField("size", "must not be negative")
	}
	if limit <= 0 {
		return ListUsersRequest{}, invalidField("limit", "must be positive")
	}
	if page > math.MaxInt64/limit {
		return ListUsersRequest{}, invalidField("size", "page offset out of range")
	}

	return ListUsersRequest{Page: page, Limit: limit}, nil
}

// DecodeCreateUser validates a create payload of the form {"name": string, "email": string}.
func DecodeCreateUser(payload any) (CreateUserRequest, error) {
	obj, err := payloadObject(payload)
	if err != nil {
		return CreateUserRequest{}, err
	}

	name, err := requiredString(obj, "name")
	if err != nil {
		return CreateUserRequest{}, err
	}
	if name == "" {
		return CreateUserRequest{}, invalidField("name", "must not be empty")
	}
	email, err := requiredString(obj, "email")
	if err != nil {
		return CreateUserRequest{}, err
	}

	return CreateUserRequest{Name: name, Email: email}, nil
}

// DecodeUpdateUser validates an update payload of the form
// {"id": string, "name"?: string, "email"?: string}.
func DecodeUpdateUser(payload any) (UpdateUserRequest, error) {
	obj, err := payloadObject(payload)
	if err != nil {
		return UpdateUserRequest{}, err
	}

	id, err := requiredString(obj, "id")
	if err != nil {
		return UpdateUserRequest{}, err
	}
	name, err := optionalString(obj, "name")
	if err != nil {
		return UpdateUserRequest{}, err
	}
	email, err := optionalString(obj, "email")
	if err != nil {
		return UpdateUserRequest{}, err
	}

	return UpdateUserRequest{ID: id, Name: name, Email: email}, nil
}

// DecodeArchiveUser validates an archive payload of the form {"id": string}.
func DecodeArchiveUser(payload any) (ArchiveUserRequest, error) {
	obj, err := payloadObject(payload)
	if err != nil {
		return ArchiveUserRequest{}, err
	}

	id, err := requiredString(obj, "id")
	if err != nil {
		return ArchiveUserRequest{}, err
	}
	return ArchiveUserRequest{ID: id}, nil
}

func payloadObject(payload any) (map[string]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok || obj == nil {
		return nil, apperrors.NewValidationError("payload must be an object", nil)
	}
	return obj, nil
}

func invalidField(field, reason string) error {
	return apperrors.NewValidationError("invalid payload", map[string]any{
		"field":  field,
		"reason": reason,
	})
}

func requiredString(obj map[string]any, key string) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", invalidField(key, "is required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalidField(key, "must be a string")
	}
	return s, nil
}

func optionalString(obj map[string]any, key string) (*string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, invalidField(key, "must be a string")
	}
	return &s, nil
}

// intField accepts the numeric shapes produced by encoding/json, structpb and Go callers.
func intField(obj map[string]any, key string) (int64, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return 0, invalidField(key, "is required")
	}

	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) ||
			n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, invalidField(key, "must be an integer")
		}
		return int64(n), nil
	case json.Number:
		v, err := n.Int64()
		if err != nil {
			return 0, invalidField(key, "must be an integer")
		}
		return v, nil
	default:
		return 0, invalidField(key, "must be an integer")
	}
}
