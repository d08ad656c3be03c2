package models

import "time"

// Customer is a registered buyer. Transactions may also be recorded without
// one (walk-in sales).
type Customer struct {
	ID           int64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FullName     string        `gorm:"column:full_name;not null;uniqueIndex" json:"full_name"`
	Phone        string        `gorm:"column:phone;not null;uniqueIndex" json:"phone"`
	Email        *string       `gorm:"column:email;uniqueIndex" json:"email"`
	Transactions []Transaction `gorm:"foreignKey:CustomerID" json:"-"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
