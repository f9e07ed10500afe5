package memory

import (
	"context"
	"fmt"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
)

// defaultQueryLimit caps history pages when the caller does not set one
const defaultQueryLimit = 50

// TransactionRepository implements the append-only log against the in-memory
// store
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new in-memory TransactionRepository
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stages a new ledger entry inside the unit of work
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: transaction append outside a unit of work", errs.ErrInternalServer)
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.stagedTxns = append(tx.stagedTxns, *transaction)
	return nil
}

// QueryByUser returns the user's committed entries newest first
func (r *TransactionRepository) QueryByUser(
	ctx context.Context,
	userID string,
	filter persistence.TransactionFilter,
) ([]*entity.Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	entries := r.store.snapshotTransactions(userID)

	var matched []*entity.Transaction
	skipped := 0
	for i := range entries {
		entry := &entries[i]
		if filter.Type != nil && entry.Type != *filter.Type {
			continue
		}
		if filter.From != nil && entry.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && entry.CreatedAt.After(*filter.To) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		matched = append(matched, entry)
		if len(matched) >= limit {
			break
		}
	}
	return matched, nil
}

// SumByType returns the total amount in cents of the user's entries of one type
func (r *TransactionRepository) SumByType(ctx context.Context, userID string, txType entity.TransactionType) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total int64
	for i := range r.store.transactions {
		entry := &r.store.transactions[i]
		if entry.UserID == userID && entry.Type == txType {
			total += entry.AmountInCents
		}
	}
	return total, nil
}

// CountByUser returns the number of committed entries for the user
func (r *TransactionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for i := range r.store.transactions {
		if r.store.transactions[i].UserID == userID {
			count++
		}
	}
	return count, nil
}

// CountByUserAndType returns the number of committed entries of one type
func (r *TransactionRepository) CountByUserAndType(ctx context.Context, userID string, txType entity.TransactionType) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for i := range r.store.transactions {
		entry := &r.store.transactions[i]
		if entry.UserID == userID && entry.Type == txType {
			count++
		}
	}
	return count, nil
}

// CountAll returns the number of committed entries across all users
func (r *TransactionRepository) CountAll(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.transactions)), nil
}

// LatestByUser returns the most recent committed entry for the user
func (r *TransactionRepository) LatestByUser(ctx context.Context, userID string) (*entity.Transaction, error) {
	entries := r.store.snapshotTransactions(userID)
	if len(entries) == 0 {
		return nil, errs.ErrAccountNotFound
	}
	return &entries[0], nil
}
