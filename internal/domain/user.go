package domain

import "time"

// User is a directory entry. A non-nil ArchivedAt marks it as soft-deleted.
type User struct {
	ID         string
	Name       string
	Email      string
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsArchived reports whether the user has been soft-deleted.
func (u *User) IsArchived() bool {
	return u.ArchivedAt != nil
}
