package dto

import (
	"time"

	"github.com/spec-kit/user-directory/internal/domain"
)

// UserResponse is the wire shape of a directory user.
type UserResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	ArchivedAt *time.Time `json:"archived_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// UserListResponse is one page of users and the total count of active users.
type UserListResponse struct {
	Data  []UserResponse `json:"data"`
	Total int64          `json:"total"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		ArchivedAt: user.ArchivedAt,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// NewUserListResponse maps a page of domain users.
func NewUserListResponse(users []domain.User, total int64) UserListResponse {
	resp := UserListResponse{Data: make([]UserResponse, 0, len(users)), Total: total}
	for i := range users {
		resp.Data = append(resp.Data, NewUserResponse(&users[i]))
	}
	return resp
}
