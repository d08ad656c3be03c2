package catalog

import (
	"time"

	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO exposes a catalog row in API responses. CanDelete reports
// whether the product is free of ledger references and may be removed.
type ProductDTO struct {
	ID          int64           `json:"id"`
	ProductCode string          `json:"product_code"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CanDelete   bool            `json:"can_delete"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductDTO holds creation-time data for a new product.
type CreateProductDTO struct {
	ProductCode string
	Name        string
	Price       decimal.Decimal
	Stock       int
}

// UpdateProductDTO carries the mutable fields; nil means leave unchanged.
type UpdateProductDTO struct {
	ProductCode *string
	Name        *string
	Price       *decimal.Decimal
	Stock       *int
}

// FromModel maps the persisted product into a DTO.
func FromModel(m *models.Product, canDelete bool) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:          m.ID,
		ProductCode: m.ProductCode,
		Name:        m.Name,
		Price:       m.Price,
		Stock:       m.Stock,
		CanDelete:   canDelete,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
