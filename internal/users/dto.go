package users

import (
	"time"

	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
)

// UserDTO exposes safe operator data in API responses.
type UserDTO struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateUserDTO holds creation-time data for a new operator account.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
}

// ToModel maps the creation DTO into the persisted model.
func (dto CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		IsActive:     true,
	}
}

// FromModel maps the persisted operator into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		IsActive:    m.IsActive,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
