package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry with a single stock count. Stock is only
// mutated through the guarded increment/decrement statements in the catalog
// repository, never by loading and re-saving the row.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductCode string          `gorm:"column:product_code;not null;uniqueIndex" json:"product_code"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
