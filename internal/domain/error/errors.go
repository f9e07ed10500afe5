package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest    = 4000
	CodeInvalidAmount     = 4001
	CodeBalanceOutOfRange = 4002
	CodeInsufficientFunds = 4003
	CodeSelfTransfer      = 4004
	CodeInvalidUserID     = 4005
	CodeAccountNotFound   = 4040

	// 5xxx - Server errors
	CodeStorageConflict = 5090
	CodeStorageFailure  = 5001
	CodeInternalServer  = 5000
)

// Base error types
var (
	// ErrInvalidRequest is returned when the request itself is malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidAmount is returned when an amount is non-positive, malformed,
	// or outside the configured per-transaction bounds
	ErrInvalidAmount = errors.New("invalid transaction amount")

	// ErrBalanceOutOfRange is returned when an operation would push a balance
	// below the configured minimum or above the configured maximum
	ErrBalanceOutOfRange = errors.New("balance out of allowed range")

	// ErrInsufficientFunds is returned when a debit or transfer would bring the
	// sender's balance below the configured minimum
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer is returned when a transfer names the same account on both sides
	ErrSelfTransfer = errors.New("transfer to the same account is not allowed")

	// ErrAccountNotFound is returned when an operation requires an existing account
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidUserID is returned when the user identifier is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidRules is returned when the credit rules configuration is inconsistent
	ErrInvalidRules = errors.New("invalid credit rules configuration")

	// ErrStorageConflict marks a transient storage conflict (deadlock,
	// serialization failure, lock contention) that may be retried
	ErrStorageConflict = errors.New("storage conflict")

	// ErrStorageFailure is returned when the durable store fails in a way the
	// ledger cannot recover from
	ErrStorageFailure = errors.New("storage failure")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrBalanceOutOfRange):
		return CodeBalanceOutOfRange
	case errors.Is(err, ErrSelfTransfer):
		return CodeSelfTransfer
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrStorageConflict):
		return CodeStorageConflict
	case errors.Is(err, ErrStorageFailure):
		return CodeStorageFailure
	default:
		return CodeInternalServer
	}
}

// BalanceRangeError carries the details of a rejected balance mutation
type BalanceRangeError struct {
	UserID    string
	Candidate string
	Minimum   string
	Maximum   string
}

// Error implements the error interface for BalanceRangeError
func (e *BalanceRangeError) Error() string {
	return fmt.Sprintf("balance %s for user %s would leave the allowed range [%s, %s]",
		e.Candidate, e.UserID, e.Minimum, e.Maximum)
}

// Is checks if the target error is an ErrBalanceOutOfRange
func (e *BalanceRangeError) Is(target error) bool {
	return target == ErrBalanceOutOfRange
}

// LogFields returns a map of fields for structured logging
func (e *BalanceRangeError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "balance_out_of_range",
		"user_id":    e.UserID,
		"candidate":  e.Candidate,
		"minimum":    e.Minimum,
		"maximum":    e.Maximum,
		"error_code": CodeBalanceOutOfRange,
	}
}

// NewBalanceRangeError creates a detailed balance range error
func NewBalanceRangeError(userID, candidate, minimum, maximum string) error {
	return &BalanceRangeError{
		UserID:    userID,
		Candidate: candidate,
		Minimum:   minimum,
		Maximum:   maximum,
	}
}

// InsufficientFundsError provides detailed error information for rejected debits.
// It is a specialization of ErrBalanceOutOfRange, so errors.Is matches both.
type InsufficientFundsError struct {
	UserID    string
	Requested string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: required %s, available %s",
		e.UserID, e.Requested, e.Available)
}

// Is checks if the target error is ErrInsufficientFunds or ErrBalanceOutOfRange
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds || target == ErrBalanceOutOfRange
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"requested":  e.Requested,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID, requested, available string) error {
	return &InsufficientFundsError{
		UserID:    userID,
		Requested: requested,
		Available: available,
	}
}

// TransferError wraps a failure of a two-account transfer with both sides attached
type TransferError struct {
	FromUserID string
	ToUserID   string
	Amount     string
	Err        error
}

// Error implements the error interface for TransferError
func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer of %s from %s to %s failed: %v",
		e.Amount, e.FromUserID, e.ToUserID, e.Err)
}

// Unwrap returns the underlying error
func (e *TransferError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransferError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "transfer_error",
		"from_user_id": e.FromUserID,
		"to_user_id":   e.ToUserID,
		"amount":       e.Amount,
		"error":        e.Err.Error(),
		"error_code":   ErrorCode(e.Err),
	}
}

// NewTransferError creates a detailed transfer error
func NewTransferError(fromUserID, toUserID, amount string, err error) error {
	return &TransferError{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
		Err:        err,
	}
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsBalanceOutOfRangeError checks if the error is any balance bound violation
func IsBalanceOutOfRangeError(err error) bool {
	return errors.Is(err, ErrBalanceOutOfRange)
}

// IsAccountNotFoundError checks if the error is an account not found error
func IsAccountNotFoundError(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

// IsStorageConflictError checks if the error is a retryable storage conflict
func IsStorageConflictError(err error) bool {
	return errors.Is(err, ErrStorageConflict)
}
