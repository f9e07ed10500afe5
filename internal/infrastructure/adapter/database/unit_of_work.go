package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/repository"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "tx"

// UnitOfWork implements the persistence unit of work on a GORM transaction.
// Repositories are bound to the transaction through the context, so every
// read and write inside the unit sees the same consistent snapshot and the
// FOR UPDATE row locks it takes.
type UnitOfWork struct {
	db              *gorm.DB
	balanceRepo     *repository.BalanceRepository
	transactionRepo *repository.TransactionRepository
	logger          coreport.Logger
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(
	db *gorm.DB,
	balanceRepo *repository.BalanceRepository,
	transactionRepo *repository.TransactionRepository,
	logger coreport.Logger,
) *UnitOfWork {
	return &UnitOfWork{
		db:              db,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Begin starts a new database transaction and binds it to the context
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, fmt.Errorf("%w: failed to begin transaction: %s", errs.ErrStorageFailure, tx.Error.Error())
	}
	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the transaction bound to the context
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("%w: no transaction found in context", errs.ErrInternalServer)
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: failed to commit transaction: %s", errs.ErrStorageFailure, err.Error())
	}
	return nil
}

// Rollback rolls back the transaction bound to the context. A rollback after
// the transaction already finished is treated as a no-op so callers can defer
// it unconditionally.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return nil
	}

	err := tx.Rollback().Error
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "already been committed or rolled back") {
		return nil
	}

	u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
	return fmt.Errorf("%w: failed to rollback transaction: %s", errs.ErrStorageFailure, err.Error())
}

// BalanceRepository returns a balance repository bound to the unit in ctx
func (u *UnitOfWork) BalanceRepository(ctx context.Context) persistence.BalanceRepository {
	return u.balanceRepo.WithDB(u.dbFromContext(ctx))
}

// TransactionRepository returns a transaction repository bound to the unit in ctx
func (u *UnitOfWork) TransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return u.transactionRepo.WithDB(u.dbFromContext(ctx))
}

// dbFromContext returns the transaction handle from ctx, falling back to the
// unbound connection
func (u *UnitOfWork) dbFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return u.db
}
