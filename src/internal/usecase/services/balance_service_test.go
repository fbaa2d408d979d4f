package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

// steppingClock advances by one hour on every call.
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Hour)
		return now
	}
}

func TestBalanceServiceWindowReturnsNetDelta(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := services.NewLedgerService(store, store, &oracleStub{}, nil, steppingClock(base))
	planner := services.NewBalanceService(store, store)

	if _, err := services.NewAccountService(store).OpenAccount(ctx, nil); err != nil {
		t.Fatalf("open account: %v", err)
	}

	// 00:00 +10 BTC, 01:00 -3 BTC, 02:00 +7 ETH, 03:00 +1 BTC
	steps := []func() error{
		func() error { _, err := ledger.Deposit(ctx, 1, "BTC", decimal.NewFromInt(10)); return err },
		func() error { _, err := ledger.Withdraw(ctx, 1, "BTC", decimal.NewFromInt(3)); return err },
		func() error { _, err := ledger.Deposit(ctx, 1, "ETH", decimal.NewFromInt(7)); return err },
		func() error { _, err := ledger.Deposit(ctx, 1, "BTC", decimal.NewFromInt(1)); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("ledger step: %v", err)
		}
	}

	start, end := base.Add(time.Hour), base.Add(2*time.Hour)
	balances, err := planner.Balances(ctx, domain.BalanceQuery{AccountID: 1, Start: &start, End: &end})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if len(balances) != 2 {
		t.Fatalf("expected BTC and ETH deltas, got %+v", balances)
	}
	if balances[0].Asset != "BTC" || !balances[0].Amount.Equal(decimal.NewFromInt(-3)) {
		t.Fatalf("expected BTC delta -3, got %+v", balances[0])
	}
	if balances[1].Asset != "ETH" || !balances[1].Amount.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected ETH delta 7, got %+v", balances[1])
	}

	current, err := planner.Balances(ctx, domain.BalanceQuery{AccountID: 1, Asset: "BTC"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(current) != 1 || !current[0].Amount.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected current BTC 8, got %+v", current)
	}
}

func TestBalanceServiceMissingAssetIsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	balances, err := f.balances.Balances(ctx, domain.BalanceQuery{AccountID: 1, Asset: "doge"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(balances) != 1 || balances[0].Asset != "DOGE" || !balances[0].Amount.IsZero() {
		t.Fatalf("expected zero DOGE balance, got %+v", balances)
	}

	start := time.Now().Add(-time.Hour)
	end := time.Now()
	windowed, err := f.balances.Balances(ctx, domain.BalanceQuery{AccountID: 1, Asset: "DOGE", Start: &start, End: &end})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(windowed) != 1 || !windowed[0].Amount.IsZero() {
		t.Fatalf("expected zero DOGE delta, got %+v", windowed)
	}
}

func TestBalanceServiceSortsByAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, asset := range []string{"USD", "BTC", "ETH"} {
		if _, err := f.ledger.Deposit(ctx, 1, asset, decimal.NewFromInt(1)); err != nil {
			t.Fatalf("deposit %s: %v", asset, err)
		}
	}

	balances, err := f.balances.Balances(ctx, domain.BalanceQuery{AccountID: 1})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got := make([]string, 0, len(balances))
	for _, balance := range balances {
		got = append(got, balance.Asset)
	}
	if len(got) != 3 || got[0] != "BTC" || got[1] != "ETH" || got[2] != "USD" {
		t.Fatalf("expected BTC, ETH, USD, got %v", got)
	}
}

func TestBalanceServiceErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	earlier := now.Add(-time.Minute)

	tests := []struct {
		name  string
		query domain.BalanceQuery
		want  error
	}{
		{name: "unknown account", query: domain.BalanceQuery{AccountID: 7}, want: domain.ErrAccountNotFound},
		{name: "start only", query: domain.BalanceQuery{AccountID: 1, Start: &now}, want: domain.ErrInvalidWindow},
		{name: "start after end", query: domain.BalanceQuery{AccountID: 1, Start: &now, End: &earlier}, want: domain.ErrInvalidWindow},
		{name: "bad asset", query: domain.BalanceQuery{AccountID: 1, Asset: "BTC-USD"}, want: domain.ErrInvalidAsset},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.balances.Balances(ctx, tc.query); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBalanceServiceRegistryFailure(t *testing.T) {
	svc := services.NewBalanceService(accountRepoStub{
		existsFn: func(context.Context, int64) (bool, error) {
			return false, errors.New("connection refused")
		},
	}, memory.NewStore())

	_, err := svc.Balances(context.Background(), domain.BalanceQuery{AccountID: 1})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
