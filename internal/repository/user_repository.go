package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/user-directory/internal/domain"
)

// ErrNotFound is returned by FindByID and Save when no record matches the id.
var ErrNotFound = errors.New("record not found")

// SortField names a sortable user attribute.
type SortField string

const (
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByCreatedAt SortField = "created_at"
)

// UserFilter restricts which users a query matches.
type UserFilter struct {
	IncludeArchived bool
}

// UserQuery describes a filtered, sorted and paginated lookup.
// A zero Limit means no limit.
type UserQuery struct {
	Filter     UserFilter
	SortBy     SortField
	Descending bool
	Skip       int64
	Limit      int64
}

// UserRepository defines persistence access for directory users.
type UserRepository interface {
	Find(ctx context.Context, q UserQuery) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Save inserts the user when ID is empty, assigning ID and timestamps,
	// and updates it in place otherwise.
	Save(ctx context.Context, user *domain.User) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

var _ UserRepository = (*userRepository)(nil)

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id::text, name, email, archived_at, created_at, updated_at`

func (r *userRepository) Find(ctx context.Context, q UserQuery) ([]domain.User, error) {
	column, err := sqlSortColumn(q.SortBy)
	if err != nil {
		return nil, err
	}
	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}

	var (
		args    []any
		clauses []string
	)
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY %s %s, id ASC`,
		userColumns, sqlWhere(q.Filter), column, direction)
	if q.Skip > 0 {
		args = append(args, q.Skip)
		clauses = append(clauses, fmt.Sprintf("OFFSET $%d", len(args)))
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		clauses = append(clauses, fmt.Sprintf("LIMIT $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " " + strings.Join(clauses, " ")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM users ` + sqlWhere(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.ArchivedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		const query = `
        INSERT INTO users (name, email, archived_at)
        VALUES ($1, $2, $3)
        RETURNING id::text, created_at, updated_at`

		if err := r.pool.QueryRow(ctx, query,
			user.Name,
			user.Email,
			user.ArchivedAt,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}

	const query = `
        UPDATE users SET name=$1, email=$2, archived_at=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.ArchivedAt,
		user.ID,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func sqlWhere(filter UserFilter) string {
	if filter.IncludeArchived {
		return ""
	}
	return "WHERE archived_at IS NULL"
}

// sqlSortColumn orders text columns by byte value to match the Mongo and
// in-memory stores regardless of the database collation.
func sqlSortColumn(field SortField) (string, error) {
	switch field {
	case "", SortByName:
		return `name COLLATE "C"`, nil
	case SortByEmail:
		return `email COLLATE "C"`, nil
	case SortByCreatedAt:
		return "created_at", nil
	default:
		return "", fmt.Errorf("unsupported sort field %q", field)
	}
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	result := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.ArchivedAt,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
