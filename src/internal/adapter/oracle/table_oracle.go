package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

var _ domain.RateOracle = (*TableOracle)(nil)

const inversePrecision = 18

// TableOracle answers from the rates table. When only the reverse pair is
// listed its reciprocal is used.
type TableOracle struct {
	rateRepo repo_interfaces.RateRepository
	timeout  time.Duration
}

func NewTableOracle(rateRepo repo_interfaces.RateRepository, timeout time.Duration) *TableOracle {
	return &TableOracle{rateRepo: rateRepo, timeout: timeout}
}

func (o *TableOracle) Rate(ctx context.Context, from string, to string) (decimal.Decimal, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	rate, err := o.rateRepo.GetRate(ctx, from, to)
	if err == nil {
		return positive(from, to, rate.Rate)
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return decimal.Zero, domain.RateError(from, to, err)
	}

	inverse, err := o.rateRepo.GetRate(ctx, to, from)
	if err != nil {
		return decimal.Zero, domain.RateError(from, to, err)
	}
	if !inverse.Rate.IsPositive() {
		return decimal.Zero, domain.RateError(from, to, fmt.Errorf("non-positive inverse rate %s", inverse.Rate))
	}
	return decimal.NewFromInt(1).DivRound(inverse.Rate, inversePrecision), nil
}

func positive(from string, to string, price decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, domain.RateError(from, to, fmt.Errorf("non-positive rate %s", price))
	}
	return price, nil
}
