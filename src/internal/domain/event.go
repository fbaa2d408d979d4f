package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEventType string

const (
	LedgerEventDeposit  LedgerEventType = "DEPOSIT"
	LedgerEventWithdraw LedgerEventType = "WITHDRAW"
	LedgerEventExchange LedgerEventType = "EXCHANGE"
)

// LedgerEvent is emitted after an operation has committed.
type LedgerEvent struct {
	ID            string          `json:"id"`
	Type          LedgerEventType `json:"type"`
	AccountID     int64           `json:"account_id"`
	Asset         string          `json:"asset"`
	Amount        decimal.Decimal `json:"amount"`
	DestAccountID int64           `json:"dest_account_id,omitempty"`
	DestAsset     string          `json:"dest_asset,omitempty"`
	DestAmount    decimal.Decimal `json:"dest_amount,omitzero"`
	TransactionID []int64         `json:"transaction_ids"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}
