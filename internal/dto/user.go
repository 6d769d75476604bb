package dto

import (
	"time"

	"github.com/yukikurage/officedesk/internal/models"
)

// UserDTO represents a user in API responses. It never carries the
// password hash.
type UserDTO struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       models.UserRole   `json:"role"`
	Status     models.UserStatus `json:"status"`
	IsActive   bool              `json:"isActive"`
	Department string            `json:"department,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	LastLogin  *time.Time        `json:"lastLogin,omitempty"`
}

func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Status:     user.Status,
		IsActive:   user.IsActive,
		Department: user.Department,
		CreatedAt:  user.CreatedAt,
		LastLogin:  user.LastLogin,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
