package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/model"
)

// BalanceRepository implements the BalanceRepository port using GORM
type BalanceRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBalanceRepository creates a new BalanceRepository instance
func NewBalanceRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *BalanceRepository {
	return &BalanceRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// WithDB returns a copy of the repository bound to the given handle.
// The unit of work uses this to bind repositories to its transaction.
func (r *BalanceRepository) WithDB(db *gorm.DB) *BalanceRepository {
	bound := *r
	bound.db = db
	return &bound
}

// modelToEntity converts a balance model to an entity
func (r *BalanceRepository) modelToEntity(balanceModel *model.Balance) (*entity.Balance, error) {
	balance, err := entity.NewBalance(balanceModel.UserID, r.timeProvider)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to rebuild balance entity: %s", errs.ErrInternalServer, err.Error())
	}
	balance.SetAmountInCents(balanceModel.AmountInCents, r.timeProvider)
	balance.CreatedAt = balanceModel.CreatedAt
	balance.UpdatedAt = balanceModel.UpdatedAt
	balance.TransactionCount = balanceModel.TransactionCount
	return balance, nil
}

// classify standardizes database error handling
func (r *BalanceRepository) classify(operation string, err error, userID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrAccountNotFound
	}
	if r.errorClassifier.IsConflictError(err) {
		r.logger.Warn("Balance row contention", map[string]any{
			"operation": operation,
			"user_id":   userID,
			"error":     err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorageConflict, err.Error())
	}
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrStorageFailure, err.Error())
}

// Get retrieves a balance without locking it
func (r *BalanceRepository) Get(ctx context.Context, userID string) (*entity.Balance, error) {
	var balanceModel model.Balance
	result := r.db.WithContext(ctx).First(&balanceModel, "user_id = ?", userID)
	if result.Error != nil {
		return nil, r.classify("getting balance", result.Error, userID)
	}
	return r.modelToEntity(&balanceModel)
}

// LockForUpdate retrieves a balance under an exclusive row lock
func (r *BalanceRepository) LockForUpdate(ctx context.Context, userID string) (*entity.Balance, error) {
	var balanceModel model.Balance
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&balanceModel, "user_id = ?", userID)
	if result.Error != nil {
		return nil, r.classify("locking balance", result.Error, userID)
	}
	return r.modelToEntity(&balanceModel)
}

// LockOrInitForUpdate locks the row, creating a zero balance when none exists.
// A concurrent insert of the same user is classified as a conflict so the
// caller's bounded retry takes another pass and finds the row.
func (r *BalanceRepository) LockOrInitForUpdate(ctx context.Context, userID string) (*entity.Balance, error) {
	balance, err := r.LockForUpdate(ctx, userID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, errs.ErrAccountNotFound) {
		return nil, err
	}

	fresh, err := entity.NewBalance(userID, r.timeProvider)
	if err != nil {
		return nil, err
	}
	balanceModel := model.Balance{
		UserID:        fresh.UserID,
		AmountInCents: 0,
		CreatedAt:     fresh.CreatedAt,
		UpdatedAt:     fresh.UpdatedAt,
	}
	if result := r.db.WithContext(ctx).Create(&balanceModel); result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return nil, fmt.Errorf("%w: concurrent account creation for %s", errs.ErrStorageConflict, userID)
		}
		return nil, r.classify("creating balance", result.Error, userID)
	}

	r.logger.Info("Account created on first credit", map[string]any{
		"user_id": userID,
	})
	return r.LockForUpdate(ctx, userID)
}

// Update persists the balance amount, transaction count and updated timestamp
func (r *BalanceRepository) Update(ctx context.Context, balance *entity.Balance) error {
	result := r.db.WithContext(ctx).Model(&model.Balance{}).
		Where("user_id = ?", balance.UserID).
		Updates(map[string]interface{}{
			"amount_in_cents":   balance.AmountInCents(),
			"updated_at":        balance.UpdatedAt,
			"transaction_count": balance.TransactionCount,
		})
	if result.Error != nil {
		return r.classify("updating balance", result.Error, balance.UserID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// TotalCirculation returns the sum of all balances in cents
func (r *BalanceRepository) TotalCirculation(ctx context.Context) (int64, error) {
	var total int64
	result := r.db.WithContext(ctx).Model(&model.Balance{}).
		Select("COALESCE(SUM(amount_in_cents), 0)").
		Scan(&total)
	if result.Error != nil {
		return 0, r.classify("summing circulation", result.Error, "")
	}
	return total, nil
}

// CountAccounts returns the number of balance rows
func (r *BalanceRepository) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Balance{}).Count(&count)
	if result.Error != nil {
		return 0, r.classify("counting accounts", result.Error, "")
	}
	return count, nil
}
