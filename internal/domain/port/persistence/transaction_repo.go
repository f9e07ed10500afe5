package persistence

import (
	"context"
	"time"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
)

// TransactionFilter narrows a transaction history query
type TransactionFilter struct {
	Type   *entity.TransactionType // Only entries of this type when set
	From   *time.Time              // Inclusive lower bound on CreatedAt
	To     *time.Time              // Inclusive upper bound on CreatedAt
	Limit  int                     // Page size; repositories apply a default when <= 0
	Offset int                     // Rows to skip
}

// TransactionRepository defines the append-only transaction log.
// Rows are immutable once created: there is deliberately no update or delete.
type TransactionRepository interface {
	// Create appends a new ledger entry. The entry must already carry its
	// identity and timestamp; repositories never mutate existing rows.
	//
	// Possible errors:
	// - ErrStorageFailure: if the store fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// QueryByUser returns the user's entries newest first, with a stable
	// tie-break on id when timestamps collide.
	QueryByUser(ctx context.Context, userID string, filter TransactionFilter) ([]*entity.Transaction, error)

	// SumByType returns the total (positive) amount in cents of the user's
	// entries of the given type.
	SumByType(ctx context.Context, userID string, txType entity.TransactionType) (int64, error)

	// CountByUser returns the number of entries for the user
	CountByUser(ctx context.Context, userID string) (int64, error)

	// CountByUserAndType returns the number of the user's entries of the
	// given type
	CountByUserAndType(ctx context.Context, userID string, txType entity.TransactionType) (int64, error)

	// CountAll returns the number of entries across all users
	CountAll(ctx context.Context) (int64, error)

	// LatestByUser returns the most recent entry for the user, or
	// ErrAccountNotFound when the user has no history.
	LatestByUser(ctx context.Context, userID string) (*entity.Transaction, error)
}
