package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts and balances are stored as NUMERIC(38,18).
const (
	AmountScale         = 18
	AmountIntegerDigits = 20
)

var maxAmount = decimal.New(1, AmountIntegerDigits)

// ValidateAmount reports ErrInvalidAmount unless amount is positive and fits
// the stored precision.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places are allowed", ErrInvalidAmount, AmountScale)
	}
	return CheckAmountRange(amount)
}

// CheckAmountRange reports ErrInvalidAmount when amount has more than
// AmountIntegerDigits integer digits.
func CheckAmountRange(amount decimal.Decimal) error {
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: exceeds %d integer digits", ErrInvalidAmount, AmountIntegerDigits)
	}
	return nil
}
