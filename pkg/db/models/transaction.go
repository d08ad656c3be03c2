package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a completed sale: header totals plus owned line items.
// Totals always satisfy total = subtotal - discount and subtotal equals the
// sum of the item subtotals.
type Transaction struct {
	ID         int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     int64             `gorm:"column:user_id;not null" json:"user_id"`
	CustomerID *int64            `gorm:"column:customer_id" json:"customer_id"`
	Subtotal   decimal.Decimal   `gorm:"column:subtotal;type:numeric(14,2);not null" json:"subtotal"`
	Discount   decimal.Decimal   `gorm:"column:discount;type:numeric(14,2);not null" json:"discount"`
	Total      decimal.Decimal   `gorm:"column:total;type:numeric(14,2);not null" json:"total"`
	User       *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Customer   *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items      []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
