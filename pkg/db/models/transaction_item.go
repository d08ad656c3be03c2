package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItem is one product-quantity entry within a transaction. Price
// is the unit price captured at sale time so later catalog price changes
// never alter a past invoice.
type TransactionItem struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TransactionID int64           `gorm:"column:transaction_id;not null;index" json:"transaction_id"`
	ProductID     int64           `gorm:"column:product_id;not null;index" json:"product_id"`
	Qty           int             `gorm:"column:qty;not null" json:"qty"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null" json:"subtotal"`
	Product       *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
