package persistence

import (
	"context"
)

// UnitOfWork coordinates balance mutations and log appends so they commit
// together or not at all. Every mutating ledger operation runs inside exactly
// one unit of work; read-only operations use the unbound repositories.
type UnitOfWork interface {
	// Begin starts a new atomic unit and returns a context bound to it
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the unit bound to the context
	Commit(ctx context.Context) error

	// Rollback aborts the unit bound to the context. Calling it after a
	// successful commit is a no-op so it is safe to defer.
	Rollback(ctx context.Context) error

	// BalanceRepository returns a balance repository bound to the unit in ctx,
	// or the unbound repository when ctx carries no unit
	BalanceRepository(ctx context.Context) BalanceRepository

	// TransactionRepository returns a transaction repository bound to the unit
	// in ctx, or the unbound repository when ctx carries no unit
	TransactionRepository(ctx context.Context) TransactionRepository
}
