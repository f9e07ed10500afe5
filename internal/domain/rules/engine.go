// Package rules implements the pure validation core of the credit ledger:
// per-transaction amount bounds, resulting-balance bounds and balance alert
// classification. The engine holds immutable configuration loaded at startup
// and is safe to call from any goroutine.
package rules

import (
	"fmt"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
)

// AlertLevel classifies a balance against the alerting thresholds
type AlertLevel string

// Alert levels
const (
	AlertNormal   AlertLevel = "normal"
	AlertLow      AlertLevel = "low"
	AlertCritical AlertLevel = "critical"
)

// CreditRules is the process-wide, read-only rule configuration, all in cents
type CreditRules struct {
	MinimumBalance           int64
	MaximumBalance           int64
	MinimumTransaction       int64
	MaximumTransaction       int64
	LowBalanceThreshold      int64
	CriticalBalanceThreshold int64
}

// Engine validates amounts and balances against the configured rules
type Engine struct {
	rules CreditRules
}

// NewEngine builds a rule engine after validating the configuration.
// An inconsistent configuration is a startup-time fatal error, never a
// per-call one, so the returned error must abort the process.
func NewEngine(rules CreditRules) (*Engine, error) {
	if rules.MaximumBalance < rules.MinimumBalance {
		return nil, fmt.Errorf("%w: maximumBalance %s is below minimumBalance %s",
			errs.ErrInvalidRules,
			entity.CentsToString(rules.MaximumBalance),
			entity.CentsToString(rules.MinimumBalance))
	}
	if rules.MaximumTransaction < rules.MinimumTransaction {
		return nil, fmt.Errorf("%w: maximumTransaction %s is below minimumTransaction %s",
			errs.ErrInvalidRules,
			entity.CentsToString(rules.MaximumTransaction),
			entity.CentsToString(rules.MinimumTransaction))
	}
	// zero is allowed here; non-positive amounts are still rejected per call
	if rules.MinimumTransaction < 0 {
		return nil, fmt.Errorf("%w: minimumTransaction must not be negative", errs.ErrInvalidRules)
	}
	if rules.CriticalBalanceThreshold > rules.LowBalanceThreshold {
		return nil, fmt.Errorf("%w: criticalBalanceThreshold %s is above lowBalanceThreshold %s",
			errs.ErrInvalidRules,
			entity.CentsToString(rules.CriticalBalanceThreshold),
			entity.CentsToString(rules.LowBalanceThreshold))
	}

	return &Engine{rules: rules}, nil
}

// Rules returns a copy of the configured rules
func (e *Engine) Rules() CreditRules {
	return e.rules
}

// ValidateTransactionAmount checks a (positive) transaction amount against the
// configured per-transaction bounds.
func (e *Engine) ValidateTransactionAmount(amountInCents int64) error {
	if amountInCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", errs.ErrInvalidAmount)
	}
	if amountInCents < e.rules.MinimumTransaction {
		return fmt.Errorf("%w: %s is below the minimum transaction amount %s",
			errs.ErrInvalidAmount,
			entity.CentsToString(amountInCents),
			entity.CentsToString(e.rules.MinimumTransaction))
	}
	if amountInCents > e.rules.MaximumTransaction {
		return fmt.Errorf("%w: %s exceeds the maximum transaction amount %s",
			errs.ErrInvalidAmount,
			entity.CentsToString(amountInCents),
			entity.CentsToString(e.rules.MaximumTransaction))
	}
	return nil
}

// ValidateResultingBalance checks a candidate balance against the configured
// balance range. Callers translate the failure into ErrInsufficientFunds for
// debits when they know the direction.
func (e *Engine) ValidateResultingBalance(userID string, candidateInCents int64) error {
	if candidateInCents < e.rules.MinimumBalance || candidateInCents > e.rules.MaximumBalance {
		return errs.NewBalanceRangeError(
			userID,
			entity.CentsToString(candidateInCents),
			entity.CentsToString(e.rules.MinimumBalance),
			entity.CentsToString(e.rules.MaximumBalance),
		)
	}
	return nil
}

// ClassifyAlertLevel compares a balance against the alert thresholds
func (e *Engine) ClassifyAlertLevel(balanceInCents int64) AlertLevel {
	switch {
	case balanceInCents <= e.rules.CriticalBalanceThreshold:
		return AlertCritical
	case balanceInCents <= e.rules.LowBalanceThreshold:
		return AlertLow
	default:
		return AlertNormal
	}
}
