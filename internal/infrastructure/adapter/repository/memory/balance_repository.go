package memory

import (
	"context"
	"fmt"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
)

// BalanceRepository implements the balance port against the in-memory store
type BalanceRepository struct {
	store *Store
}

// NewBalanceRepository creates a new in-memory BalanceRepository
func NewBalanceRepository(store *Store) *BalanceRepository {
	return &BalanceRepository{store: store}
}

// Get retrieves a balance without locking it
func (r *BalanceRepository) Get(ctx context.Context, userID string) (*entity.Balance, error) {
	if tx, ok := txFromContext(ctx); ok {
		tx.mu.Lock()
		row, staged := tx.staged[userID]
		if staged {
			copied := *row
			tx.mu.Unlock()
			return r.store.rowToEntity(copied)
		}
		tx.mu.Unlock()
	}

	row, ok := r.store.readRow(userID)
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return r.store.rowToEntity(row)
}

// LockForUpdate retrieves a balance under an exclusive per-user lock.
// The lock is held by the unit of work until commit or rollback.
func (r *BalanceRepository) LockForUpdate(ctx context.Context, userID string) (*entity.Balance, error) {
	tx, ok := txFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: row lock requested outside a unit of work", errs.ErrInternalServer)
	}

	tx.lockUser(userID)

	tx.mu.Lock()
	defer tx.mu.Unlock()
	if row, staged := tx.staged[userID]; staged {
		return r.store.rowToEntity(*row)
	}

	row, found := r.store.readRow(userID)
	if !found {
		return nil, errs.ErrAccountNotFound
	}
	tx.staged[userID] = &row
	return r.store.rowToEntity(row)
}

// LockOrInitForUpdate behaves like LockForUpdate but stages a zero balance
// row when none exists
func (r *BalanceRepository) LockOrInitForUpdate(ctx context.Context, userID string) (*entity.Balance, error) {
	balance, err := r.LockForUpdate(ctx, userID)
	if err == nil {
		return balance, nil
	}
	if !errs.IsAccountNotFoundError(err) {
		return nil, err
	}

	fresh, err := entity.NewBalance(userID, r.store.timeProvider)
	if err != nil {
		return nil, err
	}

	tx, _ := txFromContext(ctx)
	tx.mu.Lock()
	tx.staged[userID] = &balanceRow{
		UserID:    userID,
		CreatedAt: fresh.CreatedAt,
		UpdatedAt: fresh.UpdatedAt,
	}
	tx.mu.Unlock()
	return fresh, nil
}

// Update stages the balance amount, transaction count and updated timestamp
func (r *BalanceRepository) Update(ctx context.Context, balance *entity.Balance) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: balance update outside a unit of work", errs.ErrInternalServer)
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	row, staged := tx.staged[balance.UserID]
	if !staged {
		return errs.ErrAccountNotFound
	}
	row.AmountInCents = balance.AmountInCents()
	row.UpdatedAt = balance.UpdatedAt
	row.TransactionCount = balance.TransactionCount
	return nil
}

// TotalCirculation returns the sum of all committed balances in cents
func (r *BalanceRepository) TotalCirculation(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total int64
	for _, row := range r.store.balances {
		total += row.AmountInCents
	}
	return total, nil
}

// CountAccounts returns the number of committed balance rows
func (r *BalanceRepository) CountAccounts(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.balances)), nil
}
