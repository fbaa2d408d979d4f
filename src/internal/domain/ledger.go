package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confirmation acknowledges a deposit or a withdrawal.
type Confirmation struct {
	AccountID   int64
	Asset       string
	Amount      decimal.Decimal
	Transaction Transaction
}

type ExchangeRequest struct {
	SrcAccountID  int64
	DestAccountID int64
	SrcAsset      string
	DestAsset     string
	TransferAmt   decimal.Decimal
}

// ExchangeResult carries both legs of an exchange.
type ExchangeResult struct {
	SrcAccountID  int64
	DestAccountID int64
	SrcAsset      string
	DestAsset     string
	TransferAmt   decimal.Decimal
	ExchangeAmt   decimal.Decimal
	Price         decimal.Decimal
	Withdrawal    Transaction
	Deposit       Transaction
}

// BalanceQuery selects the balances answered by the planner. When Start and
// End are set the answer is the net change per asset inside the window.
type BalanceQuery struct {
	AccountID int64
	Asset     string
	Start     *time.Time
	End       *time.Time
}

func (q BalanceQuery) Windowed() bool {
	return q.Start != nil || q.End != nil
}
