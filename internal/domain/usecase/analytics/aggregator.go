// Package analytics derives spending patterns and overall summaries from the
// committed transaction log. It is strictly read-only and never raises domain
// errors beyond underlying storage failures.
package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
)

// Aggregator reads committed ledger entries and balance totals
type Aggregator struct {
	balanceRepo     persistence.BalanceRepository
	transactionRepo persistence.TransactionRepository
	logger          coreport.Logger
}

// NewAggregator creates an analytics aggregator
func NewAggregator(
	balanceRepo persistence.BalanceRepository,
	transactionRepo persistence.TransactionRepository,
	logger coreport.Logger,
) *Aggregator {
	return &Aggregator{
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// SpendingPattern summarizes one user's credit activity. Amount fields are
// decimal strings; TotalAdded covers PURCHASE, TotalDeducted covers USAGE.
// TransactionCount spans every entry type, while AveragePerTransaction is
// taken over PURCHASE and USAGE entries only so transfer legs and
// adjustments do not dilute it.
type SpendingPattern struct {
	UserID                string
	TotalAdded            string
	TotalDeducted         string
	TransactionCount      int64
	AveragePerTransaction string
	MostRecentActivity    *time.Time
}

// Overview aggregates state across all users
type Overview struct {
	TotalUsers                int64
	TotalCreditsInCirculation string
	TotalTransactions         int64
}

// UserSpendingPattern computes the user's purchase/usage totals. A user with
// no history gets zeroed aggregates, not an error.
func (a *Aggregator) UserSpendingPattern(ctx context.Context, userID string) (*SpendingPattern, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	added, err := a.transactionRepo.SumByType(ctx, userID, entity.TypePurchase)
	if err != nil {
		return nil, err
	}
	deducted, err := a.transactionRepo.SumByType(ctx, userID, entity.TypeUsage)
	if err != nil {
		return nil, err
	}
	count, err := a.transactionRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	purchases, err := a.transactionRepo.CountByUserAndType(ctx, userID, entity.TypePurchase)
	if err != nil {
		return nil, err
	}
	usages, err := a.transactionRepo.CountByUserAndType(ctx, userID, entity.TypeUsage)
	if err != nil {
		return nil, err
	}

	pattern := &SpendingPattern{
		UserID:                userID,
		TotalAdded:            entity.CentsToString(added),
		TotalDeducted:         entity.CentsToString(deducted),
		TransactionCount:      count,
		AveragePerTransaction: averagePerTransaction(added+deducted, purchases+usages),
	}

	latest, err := a.transactionRepo.LatestByUser(ctx, userID)
	switch {
	case err == nil:
		at := latest.CreatedAt
		pattern.MostRecentActivity = &at
	case errors.Is(err, errs.ErrAccountNotFound):
		// no history, leave the field nil
	default:
		return nil, err
	}

	return pattern, nil
}

// OverallAnalytics aggregates circulation and volume across all users
func (a *Aggregator) OverallAnalytics(ctx context.Context) (*Overview, error) {
	users, err := a.balanceRepo.CountAccounts(ctx)
	if err != nil {
		return nil, err
	}
	circulation, err := a.balanceRepo.TotalCirculation(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := a.transactionRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalUsers:                users,
		TotalCreditsInCirculation: entity.CentsToString(circulation),
		TotalTransactions:         transactions,
	}, nil
}

// averagePerTransaction divides the combined spending volume by the number of
// spending entries, rounded to two places
func averagePerTransaction(totalCents, count int64) string {
	if count == 0 {
		return entity.CentsToString(0)
	}
	avg := decimal.New(totalCents, -entity.MaxDecimalPlaces).
		Div(decimal.NewFromInt(count)).
		Round(entity.MaxDecimalPlaces)
	return avg.StringFixed(entity.MaxDecimalPlaces)
}
