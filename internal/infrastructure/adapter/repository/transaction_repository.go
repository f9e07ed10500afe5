package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/model"
)

// DefaultQueryLimit caps history pages when the caller does not set one
const DefaultQueryLimit = 50

// TransactionRepository implements the append-only transaction log using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// WithDB returns a copy of the repository bound to the given handle
func (r *TransactionRepository) WithDB(db *gorm.DB) *TransactionRepository {
	bound := *r
	bound.db = db
	return &bound
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:            transaction.ID,
		UserID:        transaction.UserID,
		Type:          string(transaction.Type),
		AmountInCents: transaction.AmountInCents,
		Description:   transaction.Description,
		ReferenceID:   transaction.ReferenceID,
		PackageID:     transaction.PackageID,
		CreatedAt:     transaction.CreatedAt,
		ResultBalance: transaction.ResultBalance,
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(transactionModel *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:            transactionModel.ID,
		UserID:        transactionModel.UserID,
		Type:          entity.TransactionType(transactionModel.Type),
		AmountInCents: transactionModel.AmountInCents,
		Description:   transactionModel.Description,
		ReferenceID:   transactionModel.ReferenceID,
		PackageID:     transactionModel.PackageID,
		CreatedAt:     transactionModel.CreatedAt,
		ResultBalance: transactionModel.ResultBalance,
	}
}

// classify standardizes database error handling
func (r *TransactionRepository) classify(operation string, err error) error {
	if r.errorClassifier.IsConflictError(err) {
		return fmt.Errorf("%w: %s", errs.ErrStorageConflict, err.Error())
	}
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrStorageFailure, err.Error())
}

// Create appends a new ledger entry
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := r.entityToModel(transaction)
	if result := r.db.WithContext(ctx).Create(&transactionModel); result.Error != nil {
		return r.classify("appending transaction", result.Error)
	}
	return nil
}

// QueryByUser returns the user's entries newest first with an id tie-break
func (r *TransactionRepository) QueryByUser(
	ctx context.Context,
	userID string,
	filter persistence.TransactionFilter,
) ([]*entity.Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	query := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("user_id = ?", userID)
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var rows []model.Transaction
	result := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&rows)
	if result.Error != nil {
		return nil, r.classify("querying transactions", result.Error)
	}

	transactions := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		transactions = append(transactions, r.modelToEntity(&rows[i]))
	}
	return transactions, nil
}

// SumByType returns the total amount in cents of the user's entries of one type
func (r *TransactionRepository) SumByType(ctx context.Context, userID string, txType entity.TransactionType) (int64, error) {
	var total int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount_in_cents), 0)").
		Where("user_id = ? AND type = ?", userID, string(txType)).
		Scan(&total)
	if result.Error != nil {
		return 0, r.classify("summing transactions", result.Error)
	}
	return total, nil
}

// CountByUser returns the number of entries for the user
func (r *TransactionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, r.classify("counting transactions", result.Error)
	}
	return count, nil
}

// CountByUserAndType returns the number of the user's entries of one type
func (r *TransactionRepository) CountByUserAndType(ctx context.Context, userID string, txType entity.TransactionType) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("user_id = ? AND type = ?", userID, string(txType)).
		Count(&count)
	if result.Error != nil {
		return 0, r.classify("counting transactions by type", result.Error)
	}
	return count, nil
}

// CountAll returns the number of entries across all users
func (r *TransactionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).Count(&count)
	if result.Error != nil {
		return 0, r.classify("counting all transactions", result.Error)
	}
	return count, nil
}

// LatestByUser returns the most recent entry for the user
func (r *TransactionRepository) LatestByUser(ctx context.Context, userID string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, r.classify("reading latest transaction", result.Error)
	}
	return r.modelToEntity(&transactionModel), nil
}
