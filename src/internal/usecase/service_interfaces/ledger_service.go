package service_interfaces

import (
	"context"

	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type LedgerService interface {
	Deposit(ctx context.Context, accountID int64, asset string, amount decimal.Decimal) (domain.Confirmation, error)
	Withdraw(ctx context.Context, accountID int64, asset string, amount decimal.Decimal) (domain.Confirmation, error)
	Exchange(ctx context.Context, req domain.ExchangeRequest) (domain.ExchangeResult, error)
	Transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
}
