package repo_interfaces

import (
	"context"
	"iter"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerStore holds the materialized balances and the append-only
// transaction log.
//
// Writes only happen inside RunInTx. If fn returns an error (or panics) none
// of its writes become visible.
type LedgerStore interface {
	RunInTx(ctx context.Context, fn func(tx LedgerTx) error) error

	GetBalance(ctx context.Context, accountID int64, asset string) (decimal.Decimal, error)
	ListBalances(ctx context.Context, accountID int64) ([]domain.AssetBalance, error)
	QueryTransactions(ctx context.Context, filter domain.TransactionFilter) iter.Seq2[domain.Transaction, error]
}

type LedgerTx interface {
	// LockBalance creates the balance row at zero when absent and holds it
	// until the transaction ends. It returns the current amount.
	LockBalance(ctx context.Context, accountID int64, asset string) (decimal.Decimal, error)

	// AppendTransaction records amount and applies it to the balance row.
	AppendTransaction(ctx context.Context, accountID int64, asset string, amount decimal.Decimal, ts time.Time) (domain.Transaction, error)
}
