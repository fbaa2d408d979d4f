package domain

import (
	"errors"
	"fmt"
)

var ErrRecordNotFound = errors.New("record not found")

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateAccount    = errors.New("account already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidAccountID    = errors.New("account id must be greater than zero")
	ErrInvalidAsset        = errors.New("invalid asset symbol")
	ErrInvalidWindow       = errors.New("invalid time window")
	ErrRateUnavailable     = errors.New("exchange rate unavailable")
	ErrStoreUnavailable    = errors.New("ledger store unavailable")
)

// StoreError marks err as a storage fault unless it already carries one of
// the ledger's own sentinels.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isLedgerError(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// RateError marks err as a rate lookup failure.
func RateError(from, to string, err error) error {
	if errors.Is(err, ErrRateUnavailable) {
		return err
	}
	return fmt.Errorf("rate %s/%s: %w: %w", from, to, ErrRateUnavailable, err)
}

func isLedgerError(err error) bool {
	for _, target := range []error{
		ErrRecordNotFound,
		ErrAccountNotFound,
		ErrDuplicateAccount,
		ErrInsufficientBalance,
		ErrInvalidAmount,
		ErrInvalidAccountID,
		ErrInvalidAsset,
		ErrInvalidWindow,
		ErrRateUnavailable,
		ErrStoreUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
