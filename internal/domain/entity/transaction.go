package entity

import (
	"fmt"
	"time"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
)

// TransactionType classifies a balance-affecting event
type TransactionType string

// Transaction types. The type implies the sign of the amount: every
// transaction stores a positive AmountInCents and Sign decides whether it
// counts as a credit or a debit in the running sum.
const (
	TypePurchase    TransactionType = "PURCHASE"     // credits bought through the payment layer
	TypeUsage       TransactionType = "USAGE"        // credits consumed by AI usage
	TypeTransferIn  TransactionType = "TRANSFER_IN"  // receiving side of a peer transfer
	TypeTransferOut TransactionType = "TRANSFER_OUT" // sending side of a peer transfer
	TypeAdjustment  TransactionType = "ADJUSTMENT"   // administrative grant
)

// IsValidType reports whether s names a known transaction type
func IsValidType(s string) bool {
	switch TransactionType(s) {
	case TypePurchase, TypeUsage, TypeTransferIn, TypeTransferOut, TypeAdjustment:
		return true
	}
	return false
}

// Sign returns +1 for credit types and -1 for debit types
func (t TransactionType) Sign() int64 {
	switch t {
	case TypeUsage, TypeTransferOut:
		return -1
	default:
		return 1
	}
}

// IsCredit returns true if this type increases the balance
func (t TransactionType) IsCredit() bool {
	return t.Sign() > 0
}

// Transaction is an immutable ledger entry recording one balance-affecting
// event. Once appended it is never updated or deleted (audit requirement).
type Transaction struct {
	ID            string          // Unique identifier, assigned by the log on append
	UserID        string          // Account this entry belongs to
	Type          TransactionType // Classification, implies the sign of the amount
	AmountInCents int64           // Always positive; see TransactionType.Sign
	Description   string          // Human-readable reason
	ReferenceID   string          // Optional external reference (payment id, transfer pair id)
	PackageID     string          // Optional credit package identifier
	CreatedAt     time.Time       // When the entry was appended
	ResultBalance string          // Balance after this entry committed, formatted
}

// NewTransaction creates a new ledger entry with basic validation
func NewTransaction(
	userID string,
	txType TransactionType,
	amountInCents int64,
	description string,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if !IsValidType(string(txType)) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", errs.ErrInternalServer, txType)
	}
	if amountInCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", errs.ErrInvalidAmount)
	}

	return &Transaction{
		UserID:        userID,
		Type:          txType,
		AmountInCents: amountInCents,
		Description:   description,
		CreatedAt:     timeProvider.Now(),
	}, nil
}

// SignedAmountInCents returns the amount signed by the transaction type
func (t *Transaction) SignedAmountInCents() int64 {
	return t.Type.Sign() * t.AmountInCents
}

// Amount returns the positive amount as a decimal string
func (t *Transaction) Amount() string {
	return CentsToString(t.AmountInCents)
}
