package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/user-directory/internal/domain"
	"github.com/spec-kit/user-directory/internal/events"
	"github.com/spec-kit/user-directory/internal/repository"
	apperrors "github.com/spec-kit/user-directory/pkg/util/errorutil"
)

// UserService implements the directory operations over an injected store.
// It keeps no state between calls.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// UserDependencies encapsulates collaborators of UserService.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// UserPage is one page of active users plus the total number of active users.
type UserPage struct {
	Data  []domain.User
	Total int64
}

// NewUserService constructs the service. Dispatcher and Logger are optional.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ListUsers returns active users ordered by name, paginated by {size, limit}.
func (s *UserService) ListUsers(ctx context.Context, payload any) (*UserPage, error) {
	req, err := DecodeListUsers(payload)
	if err != nil {
		return nil, err
	}

	var (
		data  []domain.User
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = s.users.Find(gctx, repository.UserQuery{
			SortBy: repository.SortByName,
			Skip:   req.Offset(),
			Limit:  req.Limit,
		})
		if err != nil {
			return fmt.Errorf("find users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.users.Count(gctx, repository.UserFilter{})
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if data == nil {
		data = []domain.User{}
	}
	return &UserPage{Data: data, Total: total}, nil
}

// CreateUser stores a new active user.
func (s *UserService) CreateUser(ctx context.Context, payload any) (*domain.User, error) {
	req, err := DecodeCreateUser(payload)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Name: req.Name, Email: req.Email}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserCreated, user.ID, s.now(), events.UserCreatedPayload{
		Name:  user.Name,
		Email: user.Email,
	}))
	return user, nil
}

// UpdateUser applies the supplied non-empty fields to an active user.
func (s *UserService) UpdateUser(ctx context.Context, payload any) (*domain.User, error) {
	req, err := DecodeUpdateUser(payload)
	if err != nil {
		return nil, err
	}

	user, err := s.activeUser(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	var changed []string
	if req.Name != nil && *req.Name != "" {
		if user.Name != *req.Name {
			changed = append(changed, "name")
		}
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		if user.Email != *req.Email {
			changed = append(changed, "email")
		}
		user.Email = *req.Email
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventUserUpdated, user.ID, s.now(), events.UserUpdatedPayload{
		ChangedFields: changed,
	}))
	return user, nil
}

// ArchiveUser soft-deletes an active user by stamping ArchivedAt.
func (s *UserService) ArchiveUser(ctx context.Context, payload any) (*domain.User, error) {
	req, err := DecodeArchiveUser(payload)
	if err != nil {
		return nil, err
	}

	user, err := s.activeUser(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	archivedAt := s.now()
	user.ArchivedAt = &archivedAt
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventUserArchived, user.ID, archivedAt, events.UserArchivedPayload{
		ArchivedAt: archivedAt,
	}))
	return user, nil
}

// activeUser loads a user, treating archived users as missing.
func (s *UserService) activeUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsArchived() {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return user, nil
}

func (s *UserService) save(ctx context.Context, user *domain.User) error {
	err := s.users.Save(ctx, user)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("user", map[string]any{"id": user.ID})
	}
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
}
