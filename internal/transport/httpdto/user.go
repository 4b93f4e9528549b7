package httpdto

import (
	"time"

	"necx-chat/internal/domain/user"

	"github.com/samber/lo"
)

// CreateUserRequest is used for POST /api/users
type CreateUserRequest struct {
	Name string `json:"name"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromUser(u user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func FromUsers(users []user.User) []UserDTO {
	return lo.Map(users, func(u user.User, _ int) UserDTO {
		return FromUser(u)
	})
}
