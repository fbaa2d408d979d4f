package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

func TestStoreCreateAllocatesSequentialIDs(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	first, err := store.Create(ctx, nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	explicit := int64(10)
	if _, err := store.Create(ctx, &explicit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	next, err := store.Create(ctx, nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if first.ID != 1 || next.ID != 11 {
		t.Fatalf("expected ids 1 and 11, got %d and %d", first.ID, next.ID)
	}

	if _, err := store.Create(ctx, &explicit); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}

	accounts, err := store.List(ctx)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(accounts) != 3 || accounts[0].ID != 1 || accounts[2].ID != 11 {
		t.Fatalf("expected accounts sorted by id, got %+v", accounts)
	}
}

func TestStoreRunInTxRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		if _, err := tx.AppendTransaction(ctx, 1, "BTC", decimal.NewFromInt(5), time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	balance, err := store.GetBalance(ctx, 1, "BTC")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance after rollback, got %s", balance)
	}

	count := 0
	for _, err := range store.QueryTransactions(ctx, domain.TransactionFilter{AccountID: 1}) {
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		count++
	}
	if count != 0 {
		t.Fatalf("expected no transactions after rollback, got %d", count)
	}
}

func TestStoreRunInTxRollsBackOnPanic(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	func() {
		defer func() { _ = recover() }()
		_ = store.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
			_, _ = tx.AppendTransaction(ctx, 1, "ETH", decimal.NewFromInt(1), time.Now())
			panic("mid transaction")
		})
	}()

	balance, err := store.GetBalance(ctx, 1, "ETH")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance after panic, got %s", balance)
	}
}

func TestStoreAppendTransactionRejectsNegativeBalance(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	err := store.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		_, err := tx.AppendTransaction(ctx, 1, "USD", decimal.NewFromInt(-1), time.Now())
		return err
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestStoreTimestampsNeverGoBackwards(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	later := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)

	var records []domain.Transaction
	err := store.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		for _, ts := range []time.Time{later, earlier} {
			record, err := tx.AppendTransaction(ctx, 1, "BTC", decimal.NewFromInt(1), ts)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if records[1].Timestamp.Before(records[0].Timestamp) {
		t.Fatalf("expected non-decreasing timestamps, got %s then %s", records[0].Timestamp, records[1].Timestamp)
	}
	if records[1].ID <= records[0].ID {
		t.Fatalf("expected increasing ids, got %d then %d", records[0].ID, records[1].ID)
	}
}

func TestStoreQueryTransactionsFiltersWindow(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := store.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		for i := range 3 {
			if _, err := tx.AppendTransaction(ctx, 1, "BTC", decimal.NewFromInt(int64(i+1)), base.Add(time.Duration(i)*time.Hour)); err != nil {
				return err
			}
		}
		_, err := tx.AppendTransaction(ctx, 2, "BTC", decimal.NewFromInt(100), base)
		return err
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	start, end := base.Add(time.Hour), base.Add(2*time.Hour)
	sum := decimal.Zero
	for tx, err := range store.QueryTransactions(ctx, domain.TransactionFilter{AccountID: 1, Start: &start, End: &end}) {
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		sum = sum.Add(tx.Amount)
	}
	if !sum.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected window sum 5, got %s", sum)
	}
}

func TestStoreCancelledContext(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.RunInTx(ctx, func(repo_interfaces.LedgerTx) error { return nil })
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.Exists(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
