package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger record. Positive amounts are credits,
// negative amounts are debits.
type Transaction struct {
	ID        int64
	AccountID int64
	Asset     string
	Amount    decimal.Decimal
	Timestamp time.Time
}

// TransactionFilter selects transactions of one account. Zero values mean
// "no constraint"; Start and End are inclusive.
type TransactionFilter struct {
	AccountID int64
	Asset     string
	Start     *time.Time
	End       *time.Time
}

func (f TransactionFilter) Match(tx Transaction) bool {
	if tx.AccountID != f.AccountID {
		return false
	}
	if f.Asset != "" && tx.Asset != f.Asset {
		return false
	}
	if f.Start != nil && tx.Timestamp.Before(*f.Start) {
		return false
	}
	if f.End != nil && tx.Timestamp.After(*f.End) {
		return false
	}
	return true
}
