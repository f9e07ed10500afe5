package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
)

func TestTransactionTypeSign(t *testing.T) {
	assert.Equal(t, int64(1), TypePurchase.Sign())
	assert.Equal(t, int64(1), TypeTransferIn.Sign())
	assert.Equal(t, int64(1), TypeAdjustment.Sign())
	assert.Equal(t, int64(-1), TypeUsage.Sign())
	assert.Equal(t, int64(-1), TypeTransferOut.Sign())

	assert.True(t, TypePurchase.IsCredit())
	assert.False(t, TypeUsage.IsCredit())
}

func TestIsValidType(t *testing.T) {
	for _, valid := range []string{"PURCHASE", "USAGE", "TRANSFER_IN", "TRANSFER_OUT", "ADJUSTMENT"} {
		assert.True(t, IsValidType(valid), valid)
	}
	for _, invalid := range []string{"", "purchase", "REFUND", "TRANSFER"} {
		assert.False(t, IsValidType(invalid), invalid)
	}
}

func TestNewTransaction(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tp := fixedTimeProvider{now: fixedTime}

	t.Run("Valid transaction", func(t *testing.T) {
		transaction, err := NewTransaction("user-1", TypePurchase, 1000, "credit pack", tp)

		require.NoError(t, err)
		assert.Equal(t, "user-1", transaction.UserID)
		assert.Equal(t, TypePurchase, transaction.Type)
		assert.Equal(t, int64(1000), transaction.AmountInCents)
		assert.Equal(t, int64(1000), transaction.SignedAmountInCents())
		assert.Equal(t, "10.00", transaction.Amount())
		assert.Equal(t, fixedTime, transaction.CreatedAt)
	})

	t.Run("Debit type carries negative signed amount", func(t *testing.T) {
		transaction, err := NewTransaction("user-1", TypeUsage, 250, "api call", tp)

		require.NoError(t, err)
		assert.Equal(t, int64(250), transaction.AmountInCents)
		assert.Equal(t, int64(-250), transaction.SignedAmountInCents())
	})

	t.Run("Empty user ID", func(t *testing.T) {
		_, err := NewTransaction("", TypePurchase, 1000, "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := NewTransaction("user-1", TransactionType("REFUND"), 1000, "", tp)
		assert.Error(t, err)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		_, err := NewTransaction("user-1", TypePurchase, 0, "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = NewTransaction("user-1", TypePurchase, -5, "", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}
