package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

var errInjected = errors.New("injected store fault")

// oracleStub counts lookups and answers from a fixed table.
type oracleStub struct {
	calls atomic.Int32
	rates map[string]decimal.Decimal
	err   error
}

func (o *oracleStub) Rate(_ context.Context, from string, to string) (decimal.Decimal, error) {
	o.calls.Add(1)
	if o.err != nil {
		return decimal.Decimal{}, o.err
	}
	price, ok := o.rates[from+"/"+to]
	if !ok {
		return decimal.Decimal{}, domain.RateError(from, to, domain.ErrRecordNotFound)
	}
	return price, nil
}

type publisherStub struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
	err    error
}

func (p *publisherStub) Publish(_ context.Context, event domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *publisherStub) published() []domain.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.LedgerEvent(nil), p.events...)
}

// faultyStore fails the n-th AppendTransaction of every transaction.
type faultyStore struct {
	repo_interfaces.LedgerStore
	failOn int
}

func (s faultyStore) RunInTx(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) error {
	return s.LedgerStore.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		return fn(&faultyTx{LedgerTx: tx, failOn: s.failOn})
	})
}

type faultyTx struct {
	repo_interfaces.LedgerTx
	failOn  int
	appends int
}

func (t *faultyTx) AppendTransaction(ctx context.Context, accountID int64, asset string, amount decimal.Decimal, ts time.Time) (domain.Transaction, error) {
	t.appends++
	if t.appends == t.failOn {
		return domain.Transaction{}, domain.StoreError("append transaction", errInjected)
	}
	return t.LedgerTx.AppendTransaction(ctx, accountID, asset, amount, ts)
}

// accountRepoStub lets tests break the registry.
type accountRepoStub struct {
	createFn func(ctx context.Context, id *int64) (domain.Account, error)
	existsFn func(ctx context.Context, id int64) (bool, error)
	listFn   func(ctx context.Context) ([]domain.Account, error)
}

func (s accountRepoStub) Create(ctx context.Context, id *int64) (domain.Account, error) {
	if s.createFn != nil {
		return s.createFn(ctx, id)
	}
	return domain.Account{}, nil
}

func (s accountRepoStub) Exists(ctx context.Context, id int64) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, id)
	}
	return false, nil
}

func (s accountRepoStub) List(ctx context.Context) ([]domain.Account, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

type fixture struct {
	store     *memory.Store
	oracle    *oracleStub
	publisher *publisherStub
	ledger    *services.LedgerService
	balances  *services.BalanceService
	accounts  *services.AccountService
}

// newFixture opens accounts 1 and 2 on a fresh memory store.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	oracle := &oracleStub{rates: map[string]decimal.Decimal{
		"USD/BTC": decimal.RequireFromString("0.00002"),
		"BTC/USD": decimal.NewFromInt(50000),
	}}
	publisher := &publisherStub{}

	f := &fixture{
		store:     store,
		oracle:    oracle,
		publisher: publisher,
		ledger:    services.NewLedgerService(store, store, oracle, publisher, nil),
		balances:  services.NewBalanceService(store, store),
		accounts:  services.NewAccountService(store),
	}
	for _, id := range []int64{1, 2} {
		if _, err := f.accounts.OpenAccount(context.Background(), &id); err != nil {
			t.Fatalf("open account %d: %v", id, err)
		}
	}
	return f
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func balanceOf(t *testing.T, store repo_interfaces.LedgerStore, accountID int64, asset string) decimal.Decimal {
	t.Helper()
	amount, err := store.GetBalance(context.Background(), accountID, asset)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	return amount
}

// assertLedgerConsistent checks that every balance equals the sum of its
// transactions.
func assertLedgerConsistent(t *testing.T, store repo_interfaces.LedgerStore, accountIDs ...int64) {
	t.Helper()
	ctx := context.Background()

	for _, accountID := range accountIDs {
		sums := make(map[string]decimal.Decimal)
		for tx, err := range store.QueryTransactions(ctx, domain.TransactionFilter{AccountID: accountID}) {
			if err != nil {
				t.Fatalf("query transactions: %v", err)
			}
			sums[tx.Asset] = sums[tx.Asset].Add(tx.Amount)
		}

		balances, err := store.ListBalances(ctx, accountID)
		if err != nil {
			t.Fatalf("list balances: %v", err)
		}
		for _, balance := range balances {
			if !balance.Amount.Equal(sums[balance.Asset]) {
				t.Fatalf("account %d %s: balance %s, transactions sum %s", accountID, balance.Asset, balance.Amount, sums[balance.Asset])
			}
			if balance.Amount.IsNegative() {
				t.Fatalf("account %d %s: negative balance %s", accountID, balance.Asset, balance.Amount)
			}
			delete(sums, balance.Asset)
		}
		for asset, sum := range sums {
			if !sum.IsZero() {
				t.Fatalf("account %d %s: transactions sum %s without balance row", accountID, asset, sum)
			}
		}
	}
}
