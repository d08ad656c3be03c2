package ledger

import (
	"time"

	"github.com/rasyarzq/kasirpos-backend/internal/catalog"
	"github.com/rasyarzq/kasirpos-backend/internal/customers"
	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ItemInput is one requested product-quantity pair on a sale.
type ItemInput struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// CreateTransactionDTO carries a new sale: an optional registered customer
// plus at least one item.
type CreateTransactionDTO struct {
	CustomerID *int64      `json:"customer_id"`
	Items      []ItemInput `json:"items"`
}

// UpdateTransactionDTO replaces the customer reference and the full item
// list of an existing sale.
type UpdateTransactionDTO struct {
	CustomerID *int64      `json:"customer_id"`
	Items      []ItemInput `json:"items"`
}

// ItemDTO exposes one recorded line item. Price is the unit price captured
// at sale time.
type ItemDTO struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductCode string          `json:"product_code,omitempty"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OperatorDTO names the cashier that recorded the sale.
type OperatorDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CustomerSummaryDTO names the registered buyer, when there is one.
type CustomerSummaryDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// TransactionDTO exposes a recorded sale in API responses.
type TransactionDTO struct {
	ID        int64               `json:"id"`
	Operator  *OperatorDTO        `json:"operator,omitempty"`
	Customer  *CustomerSummaryDTO `json:"customer,omitempty"`
	Subtotal  decimal.Decimal     `json:"subtotal"`
	Discount  decimal.Decimal     `json:"discount"`
	Total     decimal.Decimal     `json:"total"`
	Items     []ItemDTO           `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// POSDTO is the sale entry screen payload: every registered customer plus
// the in-stock slice of the catalog.
type POSDTO struct {
	Customers []customers.CustomerDTO `json:"customers"`
	Products  []catalog.ProductDTO    `json:"products"`
}

// FromModel maps the persisted transaction into a DTO.
func FromModel(m *models.Transaction) *TransactionDTO {
	if m == nil {
		return nil
	}

	dto := &TransactionDTO{
		ID:        m.ID,
		Subtotal:  m.Subtotal,
		Discount:  m.Discount,
		Total:     m.Total,
		Items:     make([]ItemDTO, 0, len(m.Items)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.User != nil {
		dto.Operator = &OperatorDTO{ID: m.User.ID, Name: m.User.Name}
	}
	if m.Customer != nil {
		dto.Customer = &CustomerSummaryDTO{
			ID:       m.Customer.ID,
			FullName: m.Customer.FullName,
			Phone:    m.Customer.Phone,
		}
	}
	for _, item := range m.Items {
		row := ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
		if item.Product != nil {
			row.ProductName = item.Product.Name
			row.ProductCode = item.Product.ProductCode
		}
		dto.Items = append(dto.Items, row)
	}
	return dto
}
