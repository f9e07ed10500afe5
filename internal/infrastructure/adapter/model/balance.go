package model

import (
	"time"
)

// Balance represents the database model for per-user balances
type Balance struct {
	UserID           string    `gorm:"primaryKey;size:255"`
	AmountInCents    int64     `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
	TransactionCount uint64    `gorm:"not null;default:0"`
}

// TableName specifies the table name for Balance
func (Balance) TableName() string {
	return "balances"
}
