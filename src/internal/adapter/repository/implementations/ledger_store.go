package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

var _ repo_interfaces.LedgerStore = (*LedgerStore)(nil)

// LedgerStore keeps balances and transactions in postgres. Balance rows are
// locked with SELECT ... FOR UPDATE for the duration of a RunInTx.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) RunInTx(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		logger.Error("ledger store begin tx failed", err, nil)
		return domain.StoreError("begin ledger transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("ledger store commit tx failed", err, nil)
		return domain.StoreError("commit ledger transaction", err)
	}
	committed = true
	return nil
}

func (s *LedgerStore) GetBalance(ctx context.Context, accountID int64, asset string) (decimal.Decimal, error) {
	const query = `
SELECT amount
FROM balances
WHERE account_id = $1
  AND asset = $2`

	var amount decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, accountID, asset).Scan(&amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		logger.Error("ledger store get balance failed", err, logger.Fields{
			"accountId": accountID,
			"asset":     asset,
		})
		return decimal.Zero, domain.StoreError("get balance", err)
	}
	return amount, nil
}

func (s *LedgerStore) ListBalances(ctx context.Context, accountID int64) ([]domain.AssetBalance, error) {
	const query = `
SELECT account_id, asset, amount, updated_at
FROM balances
WHERE account_id = $1`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		logger.Error("ledger store list balances failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, domain.StoreError("list balances", err)
	}
	defer rows.Close()

	balances := make([]domain.AssetBalance, 0)
	for rows.Next() {
		var row domain.AssetBalance
		if err := rows.Scan(&row.AccountID, &row.Asset, &row.Amount, &row.UpdatedAt); err != nil {
			return nil, domain.StoreError("scan balance", err)
		}
		balances = append(balances, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("iterate balances", err)
	}
	return balances, nil
}

// QueryTransactions runs the query each time the sequence is ranged over and
// streams rows as they are read.
func (s *LedgerStore) QueryTransactions(ctx context.Context, filter domain.TransactionFilter) iter.Seq2[domain.Transaction, error] {
	query, args := transactionQuery(filter)

	return func(yield func(domain.Transaction, error) bool) {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			logger.Error("ledger store query transactions failed", err, logger.Fields{
				"accountId": filter.AccountID,
				"asset":     filter.Asset,
			})
			yield(domain.Transaction{}, domain.StoreError("query transactions", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var tx domain.Transaction
			if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Asset, &tx.Amount, &tx.Timestamp); err != nil {
				yield(domain.Transaction{}, domain.StoreError("scan transaction", err))
				return
			}
			if !yield(tx, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.Transaction{}, domain.StoreError("iterate transactions", err))
		}
	}
}

func transactionQuery(filter domain.TransactionFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`
SELECT id, account_id, asset, amount, created_at
FROM transactions
WHERE account_id = $1`)

	args := []any{filter.AccountID}
	if filter.Asset != "" {
		args = append(args, filter.Asset)
		fmt.Fprintf(&b, "\n  AND asset = $%d", len(args))
	}
	if filter.Start != nil {
		args = append(args, filter.Start.UTC())
		fmt.Fprintf(&b, "\n  AND created_at >= $%d", len(args))
	}
	if filter.End != nil {
		args = append(args, filter.End.UTC())
		fmt.Fprintf(&b, "\n  AND created_at <= $%d", len(args))
	}
	b.WriteString("\nORDER BY created_at ASC, id ASC")
	return b.String(), args
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) LockBalance(ctx context.Context, accountID int64, asset string) (decimal.Decimal, error) {
	const ensure = `
INSERT INTO balances (account_id, asset, amount)
VALUES ($1, $2, 0)
ON CONFLICT (account_id, asset) DO NOTHING`
	if _, err := t.tx.ExecContext(ctx, ensure, accountID, asset); err != nil {
		logger.Error("ledger store ensure balance row failed", err, logger.Fields{
			"accountId": accountID,
			"asset":     asset,
		})
		return decimal.Zero, domain.StoreError("ensure balance row", err)
	}

	const lock = `
SELECT amount
FROM balances
WHERE account_id = $1
  AND asset = $2
FOR UPDATE`
	var amount decimal.Decimal
	if err := t.tx.QueryRowContext(ctx, lock, accountID, asset).Scan(&amount); err != nil {
		logger.Error("ledger store lock balance failed", err, logger.Fields{
			"accountId": accountID,
			"asset":     asset,
		})
		return decimal.Zero, domain.StoreError("lock balance", err)
	}
	return amount, nil
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, accountID int64, asset string, amount decimal.Decimal, ts time.Time) (domain.Transaction, error) {
	logger.Info("ledger store append transaction", logger.Fields{
		"accountId": accountID,
		"asset":     asset,
		"amount":    amount,
	})

	// Callers hold the balance row lock, so the clamp against the latest
	// entry of the same balance cannot race.
	const insert = `
INSERT INTO transactions (account_id, asset, amount, created_at)
SELECT $1::bigint, $2::varchar, $3::numeric, GREATEST($4::timestamptz, COALESCE(MAX(created_at), $4::timestamptz))
FROM transactions
WHERE account_id = $1
  AND asset = $2
RETURNING id, created_at`

	record := domain.Transaction{AccountID: accountID, Asset: asset, Amount: amount}
	if err := t.tx.QueryRowContext(ctx, insert, accountID, asset, amount, ts.UTC()).Scan(&record.ID, &record.Timestamp); err != nil {
		logger.Error("ledger store insert transaction failed", err, logger.Fields{
			"accountId": accountID,
			"asset":     asset,
		})
		return domain.Transaction{}, domain.StoreError("insert transaction", err)
	}

	const apply = `
INSERT INTO balances (account_id, asset, amount, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (account_id, asset) DO UPDATE
SET amount = balances.amount + EXCLUDED.amount,
    updated_at = EXCLUDED.updated_at`
	if _, err := execRequiredRows(ctx, t.tx, apply, accountID, asset, amount, record.Timestamp); err != nil {
		if isCheckViolation(err) {
			return domain.Transaction{}, domain.ErrInsufficientBalance
		}
		logger.Error("ledger store apply balance failed", err, logger.Fields{
			"accountId": accountID,
			"asset":     asset,
		})
		return domain.Transaction{}, domain.StoreError("apply balance", err)
	}

	return record, nil
}

func execRequiredRows(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("execute transaction statement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read rows affected: %w", err)
	}
	if rows == 0 {
		return 0, errors.New("balance row was not written")
	}
	return rows, nil
}
