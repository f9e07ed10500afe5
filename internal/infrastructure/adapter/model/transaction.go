package model

import (
	"time"
)

// Transaction represents the database model for ledger entries.
// Rows are append-only; there is no update path in the repository.
type Transaction struct {
	ID            string    `gorm:"primaryKey;size:36"`
	UserID        string    `gorm:"not null;index:idx_transactions_user_created,priority:1;size:255"`
	Type          string    `gorm:"not null;size:20;index"`
	AmountInCents int64     `gorm:"not null"`
	Description   string    `gorm:"type:text"`
	ReferenceID   string    `gorm:"size:255;index"`
	PackageID     string    `gorm:"size:255"`
	CreatedAt     time.Time `gorm:"not null;index:idx_transactions_user_created,priority:2,sort:desc"`
	ResultBalance string    `gorm:"size:50"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
