package oracle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/oracle"
	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type rateRepoStub struct {
	getRateFn func(ctx context.Context, fromCurrency string, toCurrency string) (domain.Rate, error)
}

func (s rateRepoStub) GetRates(context.Context) ([]domain.Rate, error) {
	return nil, nil
}

func (s rateRepoStub) GetRate(ctx context.Context, fromCurrency string, toCurrency string) (domain.Rate, error) {
	return s.getRateFn(ctx, fromCurrency, toCurrency)
}

func TestTableOracleDirectRate(t *testing.T) {
	o := oracle.NewTableOracle(memory.NewRateRepository(memory.DefaultRates()), time.Second)

	price, err := o.Rate(context.Background(), "USD", "BTC")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !price.Equal(decimal.RequireFromString("0.00002")) {
		t.Fatalf("expected 0.00002, got %s", price)
	}
}

func TestTableOracleInverseRate(t *testing.T) {
	repo := memory.NewRateRepository([]domain.Rate{
		{FromCurrency: "GBP", ToCurrency: "USD", Rate: decimal.NewFromInt(2)},
	})
	o := oracle.NewTableOracle(repo, time.Second)

	price, err := o.Rate(context.Background(), "USD", "GBP")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !price.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected 0.5, got %s", price)
	}
}

func TestTableOracleUnknownPair(t *testing.T) {
	o := oracle.NewTableOracle(memory.NewRateRepository(nil), time.Second)

	_, err := o.Rate(context.Background(), "USD", "DOGE")
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestTableOracleRepositoryFailure(t *testing.T) {
	o := oracle.NewTableOracle(rateRepoStub{
		getRateFn: func(context.Context, string, string) (domain.Rate, error) {
			return domain.Rate{}, errors.New("connection refused")
		},
	}, time.Second)

	_, err := o.Rate(context.Background(), "USD", "BTC")
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}
