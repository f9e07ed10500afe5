package entity

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for credit amounts
const MaxDecimalPlaces = 2

// ParseCents converts a decimal string to an amount in cents.
// Accepts at most two decimal places; negative values are allowed because
// configuration bounds (e.g. minimumBalance) may legitimately be negative.
func ParseCents(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	if !d.Truncate(MaxDecimalPlaces).Equal(d) {
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	cents := d.Shift(MaxDecimalPlaces)
	if cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) ||
		cents.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("%w: amount too large", errs.ErrInvalidAmount)
	}

	return cents.IntPart(), nil
}

// ParseAmount converts a decimal string to a strictly positive amount in cents.
// This is the entry point for all transaction amounts.
func ParseAmount(amount string) (int64, error) {
	cents, err := ParseCents(amount)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", errs.ErrInvalidAmount)
	}
	return cents, nil
}

// CentsToString converts an amount in cents to a decimal string with two places.
// For example 1015 becomes "10.15" and -50 becomes "-0.50".
func CentsToString(cents int64) string {
	return decimal.New(cents, -MaxDecimalPlaces).StringFixed(MaxDecimalPlaces)
}
