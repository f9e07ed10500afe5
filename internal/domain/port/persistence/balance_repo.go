package persistence

import (
	"context"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
)

// BalanceRepository defines the durable current-balance-per-user state.
// Reads never create rows; rows come into existence on first credit through
// LockOrInitForUpdate inside a unit of work.
type BalanceRepository interface {
	// Get retrieves a balance without locking it.
	//
	// Possible errors:
	// - ErrAccountNotFound: if no balance row exists for the user
	// - ErrStorageFailure: if the store fails
	Get(ctx context.Context, userID string) (*entity.Balance, error)

	// LockForUpdate retrieves a balance under an exclusive row lock. Must be
	// called inside a unit of work; the lock is held until commit or rollback.
	//
	// Possible errors:
	// - ErrAccountNotFound: if no balance row exists for the user
	// - ErrStorageConflict: on lock contention that may be retried
	// - ErrStorageFailure: if the store fails
	LockForUpdate(ctx context.Context, userID string) (*entity.Balance, error)

	// LockOrInitForUpdate behaves like LockForUpdate but creates a zero
	// balance row when none exists. This is the implicit account creation
	// path for first credits.
	LockOrInitForUpdate(ctx context.Context, userID string) (*entity.Balance, error)

	// Update persists the balance amount, transaction count and updated
	// timestamp. Must be called inside a unit of work holding the row lock.
	//
	// Possible errors:
	// - ErrAccountNotFound: if the row disappeared
	// - ErrStorageFailure: if the store fails
	Update(ctx context.Context, balance *entity.Balance) error

	// TotalCirculation returns the sum of all balances in cents
	TotalCirculation(ctx context.Context) (int64, error)

	// CountAccounts returns the number of balance rows
	CountAccounts(ctx context.Context) (int64, error)
}
