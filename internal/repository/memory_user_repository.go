package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/user-directory/internal/domain"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	now   func() time.Time
}

var _ UserRepository = (*memoryUserRepository)(nil)

// NewMemoryUserRepository returns a process-local implementation. Callers get
// copies, so mutating a returned user never changes stored state.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: make(map[string]domain.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryUserRepository) Find(ctx context.Context, q UserQuery) ([]domain.User, error) {
	compare, err := memoryComparator(q.SortBy)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		if q.Filter.IncludeArchived || !user.IsArchived() {
			matched = append(matched, cloneUser(user))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b domain.User) int {
		c := compare(a, b)
		if q.Descending {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return c
	})

	if q.Skip >= int64(len(matched)) {
		return []domain.User{}, nil
	}
	matched = matched[q.Skip:]
	if q.Limit > 0 && q.Limit < int64(len(matched)) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (r *memoryUserRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, user := range r.users {
		if filter.IncludeArchived || !user.IsArchived() {
			total++
		}
	}
	return total, nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneUser(user)
	return &clone, nil
}

func (r *memoryUserRepository) Save(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if user.ID == "" {
		user.ID = uuid.NewString()
		user.CreatedAt = now
	} else {
		existing, ok := r.users[user.ID]
		if !ok {
			return ErrNotFound
		}
		user.CreatedAt = existing.CreatedAt
	}
	user.UpdatedAt = now

	r.users[user.ID] = cloneUser(*user)
	return nil
}

func memoryComparator(field SortField) (func(a, b domain.User) int, error) {
	switch field {
	case "", SortByName:
		return func(a, b domain.User) int { return strings.Compare(a.Name, b.Name) }, nil
	case SortByEmail:
		return func(a, b domain.User) int { return strings.Compare(a.Email, b.Email) }, nil
	case SortByCreatedAt:
		return func(a, b domain.User) int { return a.CreatedAt.Compare(b.CreatedAt) }, nil
	default:
		return nil, fmt.Errorf("unsupported sort field %q", field)
	}
}

func cloneUser(user domain.User) domain.User {
	if user.ArchivedAt != nil {
		at := *user.ArchivedAt
		user.ArchivedAt = &at
	}
	return user
}
