package models

import "time"

// User is an operator account (cashier or admin) that records transactions.
type User struct {
	ID           int64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string        `gorm:"column:name;not null" json:"name"`
	Email        string        `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string        `gorm:"column:password_hash;not null" json:"-"`
	IsActive     bool          `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time    `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
