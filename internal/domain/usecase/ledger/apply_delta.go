package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/rules"
)

// MutationRequest describes a single-account balance mutation
type MutationRequest struct {
	UserID      string
	Amount      string // Decimal string, strictly positive
	Description string
	ReferenceID string // Optional payment or external reference
	PackageID   string // Optional credit package identifier
}

// MutationResult is the outcome of a committed balance mutation
type MutationResult struct {
	UserID         string
	Balance        string
	BalanceInCents int64
	Transaction    *entity.Transaction
	AlertLevel     rules.AlertLevel
}

// AddCredits credits the user with purchased credits (PURCHASE). The account
// is created implicitly when this is the user's first credit.
func (s *Service) AddCredits(ctx context.Context, req MutationRequest) (*MutationResult, error) {
	return s.applyDelta(ctx, req, entity.TypePurchase)
}

// DeductCredits debits the user's balance for usage (USAGE)
func (s *Service) DeductCredits(ctx context.Context, req MutationRequest) (*MutationResult, error) {
	return s.applyDelta(ctx, req, entity.TypeUsage)
}

// Adjust credits the user through an administrative grant (ADJUSTMENT).
// This is the path the batch processor takes for each independent item.
func (s *Service) Adjust(ctx context.Context, req MutationRequest) (*MutationResult, error) {
	return s.applyDelta(ctx, req, entity.TypeAdjustment)
}

// applyDelta validates the request, then runs the atomic unit: lock the
// balance row, validate the candidate against the rule engine, persist the
// new balance and append the log entry, commit. Transient storage conflicts
// are retried a bounded number of times; rule failures never are.
func (s *Service) applyDelta(ctx context.Context, req MutationRequest, txType entity.TransactionType) (*MutationResult, error) {
	if req.UserID == "" {
		return nil, errs.ErrInvalidUserID
	}

	amountInCents, err := entity.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.rules.ValidateTransactionAmount(amountInCents); err != nil {
		return nil, err
	}

	var result *MutationResult
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err = s.applyOnce(ctx, req, txType, amountInCents)
		if err == nil {
			break
		}
		if !errs.IsStorageConflictError(err) {
			return nil, err
		}
		s.logger.Warn("Storage conflict while applying delta, retrying", map[string]any{
			"user_id":      req.UserID,
			"type":         string(txType),
			"attempt":      attempt,
			"max_attempts": s.maxAttempts,
			"error":        err.Error(),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrStorageFailure, err.Error())
	}

	s.notifyAlertLevel(result)
	return result, nil
}

// applyOnce runs one attempt of the atomic unit
func (s *Service) applyOnce(
	ctx context.Context,
	req MutationRequest,
	txType entity.TransactionType,
	amountInCents int64,
) (*MutationResult, error) {
	uctx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Safe after commit; aborts the unit on any early return
	defer func() { _ = s.uow.Rollback(uctx) }()

	balanceRepo := s.uow.BalanceRepository(uctx)

	var balance *entity.Balance
	if txType.IsCredit() {
		balance, err = balanceRepo.LockOrInitForUpdate(uctx, req.UserID)
	} else {
		balance, err = s.lockForDebit(uctx, balanceRepo, req.UserID, amountInCents)
	}
	if err != nil {
		return nil, err
	}

	signed := txType.Sign() * amountInCents
	candidate := balance.AmountInCents() + signed
	if err := s.rules.ValidateResultingBalance(req.UserID, candidate); err != nil {
		if !txType.IsCredit() && candidate < s.rules.Rules().MinimumBalance {
			return nil, errs.NewInsufficientFundsError(req.UserID, entity.CentsToString(amountInCents), balance.Formatted())
		}
		return nil, err
	}

	balance.Apply(signed, s.timeProvider)
	if err := balanceRepo.Update(uctx, balance); err != nil {
		return nil, err
	}

	transaction, err := entity.NewTransaction(req.UserID, txType, amountInCents, req.Description, s.timeProvider)
	if err != nil {
		return nil, err
	}
	transaction.ID = uuid.NewString()
	transaction.ReferenceID = req.ReferenceID
	transaction.PackageID = req.PackageID
	transaction.ResultBalance = balance.Formatted()

	if err := s.uow.TransactionRepository(uctx).Create(uctx, transaction); err != nil {
		return nil, err
	}

	if err := s.uow.Commit(uctx); err != nil {
		return nil, err
	}

	s.logger.Info("Balance mutation committed", map[string]any{
		"user_id":        req.UserID,
		"transaction_id": transaction.ID,
		"type":           string(txType),
		"amount":         transaction.Amount(),
		"new_balance":    balance.Formatted(),
	})

	return &MutationResult{
		UserID:         req.UserID,
		Balance:        balance.Formatted(),
		BalanceInCents: balance.AmountInCents(),
		Transaction:    transaction,
		AlertLevel:     s.rules.ClassifyAlertLevel(balance.AmountInCents()),
	}, nil
}

// lockForDebit locks the row for a debit. A missing account is treated as a
// zero balance: when even a zero balance could not cover the debit the row is
// never materialized and the caller gets the insufficient funds rejection.
func (s *Service) lockForDebit(
	ctx context.Context,
	balanceRepo persistence.BalanceRepository,
	userID string,
	amountInCents int64,
) (*entity.Balance, error) {
	balance, err := balanceRepo.LockForUpdate(ctx, userID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, errs.ErrAccountNotFound) {
		return nil, err
	}

	if -amountInCents < s.rules.Rules().MinimumBalance {
		return nil, errs.NewInsufficientFundsError(userID, entity.CentsToString(amountInCents), entity.CentsToString(0))
	}
	// A negative minimum balance allows debiting a fresh account
	return balanceRepo.LockOrInitForUpdate(ctx, userID)
}

// notifyAlertLevel logs a warning when a mutation leaves the balance at or
// below the alert thresholds
func (s *Service) notifyAlertLevel(result *MutationResult) {
	if result.AlertLevel == rules.AlertNormal {
		return
	}
	s.logger.Warn("Balance below alert threshold", map[string]any{
		"user_id":     result.UserID,
		"balance":     result.Balance,
		"alert_level": string(result.AlertLevel),
	})
}
