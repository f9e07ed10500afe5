package entity

import (
	"time"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
)

// Balance represents the current credit amount owned by a user.
// The amount is stored in cents to avoid floating point precision issues and
// is only mutated through Apply, which the ledger use case drives inside an
// atomic unit of work.
type Balance struct {
	UserID           string    // Opaque identifier supplied by the identity layer
	amount           int64     // Current amount in cents (private)
	CreatedAt        time.Time // When the account row was created
	UpdatedAt        time.Time // When the balance was last updated
	TransactionCount uint64    // Count of transactions applied to this balance
}

// NewBalance creates a zero balance for the given user.
// Accounts are created implicitly on first credit, so a fresh balance always starts at 0.
func NewBalance(userID string, timeProvider coreport.TimeProvider) (*Balance, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	now := timeProvider.Now()
	return &Balance{
		UserID:    userID,
		amount:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AmountInCents returns the current amount in cents
func (b *Balance) AmountInCents() int64 {
	return b.amount
}

// Formatted returns the balance as a decimal string with two places
func (b *Balance) Formatted() string {
	return CentsToString(b.amount)
}

// SetAmountInCents overwrites the amount directly (for repositories rehydrating rows)
func (b *Balance) SetAmountInCents(cents int64, timeProvider coreport.TimeProvider) {
	b.amount = cents
	b.UpdatedAt = timeProvider.Now()
}

// Apply adds a signed delta to the balance and bumps the transaction count.
// Range validation happens in the rule engine before this is called.
func (b *Balance) Apply(signedCents int64, timeProvider coreport.TimeProvider) {
	b.amount += signedCents
	b.TransactionCount++
	b.UpdatedAt = timeProvider.Now()
}
