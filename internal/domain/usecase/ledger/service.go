// Package ledger implements the mutating core of the credit ledger: single
// account credits and debits applied together with their log entries as one
// atomic unit of work.
package ledger

import (
	"context"
	"errors"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/rules"
)

// DefaultMaxAttempts bounds the retries on transient storage conflicts
const DefaultMaxAttempts = 3

// Service applies balance mutations through the unit of work. All writes to
// balances go through here, the transfer coordinator or the batch processor;
// nothing else mutates balance state.
type Service struct {
	uow          persistence.UnitOfWork
	rules        *rules.Engine
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	maxAttempts  int
}

// NewService creates a ledger service
func NewService(
	uow persistence.UnitOfWork,
	engine *rules.Engine,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		rules:        engine,
		timeProvider: timeProvider,
		logger:       logger,
		maxAttempts:  DefaultMaxAttempts,
	}
}

// WithMaxAttempts overrides the bounded retry count for storage conflicts
func (s *Service) WithMaxAttempts(attempts int) *Service {
	if attempts > 0 {
		s.maxAttempts = attempts
	}
	return s
}

// Rules exposes the rule engine for collaborators (transfer coordinator)
func (s *Service) Rules() *rules.Engine {
	return s.rules
}

// UnitOfWork exposes the unit of work for collaborators (transfer coordinator)
func (s *Service) UnitOfWork() persistence.UnitOfWork {
	return s.uow
}

// BalanceResult is the outcome of a balance read
type BalanceResult struct {
	UserID         string
	Balance        string
	BalanceInCents int64
	AlertLevel     rules.AlertLevel
}

// GetBalance returns the user's current balance, defaulting to zero for an
// unknown user without creating a row.
func (s *Service) GetBalance(ctx context.Context, userID string) (*BalanceResult, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	balance, err := s.uow.BalanceRepository(ctx).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrAccountNotFound) {
			return &BalanceResult{
				UserID:     userID,
				Balance:    entity.CentsToString(0),
				AlertLevel: s.rules.ClassifyAlertLevel(0),
			}, nil
		}
		return nil, err
	}

	return &BalanceResult{
		UserID:         userID,
		Balance:        balance.Formatted(),
		BalanceInCents: balance.AmountInCents(),
		AlertLevel:     s.rules.ClassifyAlertLevel(balance.AmountInCents()),
	}, nil
}

// History returns the user's transactions newest first
func (s *Service) History(ctx context.Context, userID string, filter persistence.TransactionFilter) ([]*entity.Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	return s.uow.TransactionRepository(ctx).QueryByUser(ctx, userID, filter)
}
