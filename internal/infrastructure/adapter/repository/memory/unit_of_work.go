package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const txContextKey contextKey = "memory_tx"

// memTx stages the writes of one unit of work. Staged rows and entries are
// invisible to other readers until Commit copies them into the store.
type memTx struct {
	mu          sync.Mutex
	store       *Store
	staged      map[string]*balanceRow
	stagedTxns  []entity.Transaction
	lockedUsers []string
	done        bool
}

// lockUser acquires the per-user lock once per unit of work
func (t *memTx) lockUser(userID string) {
	for _, locked := range t.lockedUsers {
		if locked == userID {
			return
		}
	}
	t.store.userLock(userID).Lock()
	t.lockedUsers = append(t.lockedUsers, userID)
}

// releaseLocks releases the per-user locks held by this unit of work
func (t *memTx) releaseLocks() {
	for _, userID := range t.lockedUsers {
		t.store.userLock(userID).Unlock()
	}
	t.lockedUsers = nil
}

// UnitOfWork implements the persistence unit of work on top of the in-memory
// store
type UnitOfWork struct {
	store           *Store
	balanceRepo     *BalanceRepository
	transactionRepo *TransactionRepository
}

// NewUnitOfWork creates a unit of work factory bound to the store
func NewUnitOfWork(store *Store, balanceRepo *BalanceRepository, transactionRepo *TransactionRepository) *UnitOfWork {
	return &UnitOfWork{
		store:           store,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
	}
}

// Begin starts a new atomic unit and returns a context bound to it
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	tx := &memTx{
		store:  u.store,
		staged: make(map[string]*balanceRow),
	}
	return context.WithValue(ctx, txContextKey, tx), nil
}

// Commit applies the staged writes to the store and releases the row locks
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: commit without an active unit of work", errs.ErrInternalServer)
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		return fmt.Errorf("%w: unit of work already finished", errs.ErrInternalServer)
	}

	u.store.mu.Lock()
	for userID, row := range tx.staged {
		committed := *row
		u.store.balances[userID] = &committed
	}
	u.store.transactions = append(u.store.transactions, tx.stagedTxns...)
	u.store.mu.Unlock()

	tx.done = true
	tx.releaseLocks()
	return nil
}

// Rollback discards the staged writes and releases the row locks.
// Calling it after a successful commit is a no-op.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return nil
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		return nil
	}

	tx.done = true
	tx.staged = nil
	tx.stagedTxns = nil
	tx.releaseLocks()
	return nil
}

// BalanceRepository returns a balance repository bound to the unit in ctx
func (u *UnitOfWork) BalanceRepository(ctx context.Context) persistence.BalanceRepository {
	return u.balanceRepo
}

// TransactionRepository returns a transaction repository bound to the unit in ctx
func (u *UnitOfWork) TransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return u.transactionRepo
}

// txFromContext extracts the unit of work from the context
func txFromContext(ctx context.Context) (*memTx, bool) {
	tx, ok := ctx.Value(txContextKey).(*memTx)
	return tx, ok
}
