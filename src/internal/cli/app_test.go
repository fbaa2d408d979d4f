package cli

import (
	"context"
	"testing"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/config"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

func TestBuildMemoryWithRateTable(t *testing.T) {
	ctx := context.Background()
	app, err := Build(ctx, config.Config{
		StoreDriver: config.StoreMemory,
		RateSource:  config.RateSourceTable,
		RateTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if _, err := app.Accounts.SeedAccounts(ctx, 2); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := app.Ledger.Deposit(ctx, 1, "ETH", decimal.NewFromInt(2)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	result, err := app.Ledger.Exchange(ctx, domain.ExchangeRequest{
		SrcAccountID:  1,
		DestAccountID: 2,
		SrcAsset:      "ETH",
		DestAsset:     "USD",
		TransferAmt:   decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if !result.ExchangeAmt.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected 5000 USD, got %s", result.ExchangeAmt)
	}
}

func TestAppCloseRunsInReverseOrder(t *testing.T) {
	var order []int
	app := &App{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return nil },
	}}

	if err := app.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("expected closers 2 then 1, got %v", order)
	}
}

func TestCommandsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Commands {
		if seen[c.Name()] {
			t.Fatalf("duplicate command %q", c.Name())
		}
		seen[c.Name()] = true
	}
	for _, name := range []string{"serve", "migrate", "open-account"} {
		if !seen[name] {
			t.Fatalf("missing command %q", name)
		}
	}
}
