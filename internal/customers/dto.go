package customers

import (
	"time"

	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
)

// CustomerDTO exposes a registry row in API responses.
type CustomerDTO struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	CanDelete bool      `json:"can_delete"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCustomerDTO holds creation-time data for a new customer.
type CreateCustomerDTO struct {
	FullName string
	Phone    string
	Email    *string
}

// UpdateCustomerDTO carries the mutable fields; nil means leave unchanged.
// ClearEmail removes the stored email when true.
type UpdateCustomerDTO struct {
	FullName   *string
	Phone      *string
	Email      *string
	ClearEmail bool
}

// FromModel maps the persisted customer into a DTO.
func FromModel(m *models.Customer, canDelete bool) *CustomerDTO {
	if m == nil {
		return nil
	}
	dto := &CustomerDTO{
		ID:        m.ID,
		FullName:  m.FullName,
		Phone:     m.Phone,
		CanDelete: canDelete,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Email != nil {
		cpy := *m.Email
		dto.Email = &cpy
	}
	return dto
}
