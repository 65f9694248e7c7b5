package dto

import (
	"time"

	"github.com/yukikurage/roster-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
	Organization uint64          `json:"organization"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// UserRefDTO is the creator summary embedded in service views.
type UserRefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		Organization: user.OrganizationID,
		CreatedAt:    user.CreatedAt,
	}
}

func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{ID: user.ID, Name: user.Name}
}
