package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-directory/internal/api/dto"
	"github.com/spec-kit/user-directory/internal/service"
	apperrors "github.com/spec-kit/user-directory/pkg/util/errorutil"
)

// UsersHandler exposes the user directory over HTTP.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /users?size=&limit=.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, err := h.users.ListUsers(c.UserContext(), queryPayload(c, "size", "limit"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserListResponse(page.Data, page.Total))
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	payload, err := bodyPayload(c)
	if err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PATCH /users/:id. The path id overrides any id in the body.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	payload, err := bodyPayload(c)
	if err != nil {
		return err
	}

	obj, ok := payload.(map[string]any)
	if payload == nil {
		obj, ok = map[string]any{}, true
	}
	if !ok {
		return apperrors.NewValidationError("payload must be an object", nil)
	}
	obj["id"] = c.Params("id")

	user, err := h.users.UpdateUser(c.UserContext(), obj)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Archive handles DELETE /users/:id.
func (h *UsersHandler) Archive(c *fiber.Ctx) error {
	user, err := h.users.ArchiveUser(c.UserContext(), map[string]any{"id": c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// bodyPayload decodes the request body into an untyped value. An empty body
// yields nil so the service reports the missing payload.
func bodyPayload(c *fiber.Ctx) (any, error) {
	body := c.Body()
	if len(body) == 0 {
		return nil, nil
	}
	var payload any
	if err := c.App().Config().JSONDecoder(body, &payload); err != nil {
		return nil, apperrors.NewValidationError("invalid JSON payload", nil)
	}
	return payload, nil
}

// queryPayload builds a payload from query parameters. Integer-looking values
// become int64; anything else is passed through for the validator to reject.
func queryPayload(c *fiber.Ctx, keys ...string) map[string]any {
	payload := make(map[string]any, len(keys))
	for _, key := range keys {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			payload[key] = n
			continue
		}
		payload[key] = raw
	}
	return payload
}
