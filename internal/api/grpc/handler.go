package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/spec-kit/user-directory/internal/domain"
	"github.com/spec-kit/user-directory/internal/service"
)

// UserHandler serves the UserDirectory gRPC service.
type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{users: users, logger: logger}
}

// ListUsers returns {"data": [user...], "total": n}.
func (h *UserHandler) ListUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	page, err := h.users.ListUsers(ctx, req.AsMap())
	if err != nil {
		return nil, handleError(err)
	}

	data := make([]any, 0, len(page.Data))
	for i := range page.Data {
		data = append(data, userFields(&page.Data[i]))
	}
	return h.respond(map[string]any{"data": data, "total": page.Total})
}

// CreateUser returns {"data": user}.
func (h *UserHandler) CreateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	user, err := h.users.CreateUser(ctx, req.AsMap())
	if err != nil {
		return nil, handleError(err)
	}
	return h.respond(map[string]any{"data": userFields(user)})
}

// UpdateUser returns {"data": user}.
func (h *UserHandler) UpdateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	user, err := h.users.UpdateUser(ctx, req.AsMap())
	if err != nil {
		return nil, handleError(err)
	}
	return h.respond(map[string]any{"data": userFields(user)})
}

// ArchiveUser returns {"data": user}.
func (h *UserHandler) ArchiveUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	user, err := h.users.ArchiveUser(ctx, req.AsMap())
	if err != nil {
		return nil, handleError(err)
	}
	return h.respond(map[string]any{"data": userFields(user)})
}

func (h *UserHandler) respond(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		h.logger.Error("encode response", zap.Error(err))
		return nil, handleError(err)
	}
	return out, nil
}

func userFields(user *domain.User) map[string]any {
	fields := map[string]any{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"archived_at": nil,
		"created_at":  formatTime(user.CreatedAt),
		"updated_at":  formatTime(user.UpdatedAt),
	}
	if user.ArchivedAt != nil {
		fields["archived_at"] = formatTime(*user.ArchivedAt)
	}
	return fields
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
