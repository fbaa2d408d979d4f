package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Rate struct {
	ID           int64
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	RateDate     time.Time
	CreatedAt    time.Time
}

// RateOracle converts one unit of from into units of to. Implementations
// return an error wrapping ErrRateUnavailable when no positive price is known.
type RateOracle interface {
	Rate(ctx context.Context, from string, to string) (decimal.Decimal, error)
}

// RateOracleFunc adapts a plain function to RateOracle.
type RateOracleFunc func(ctx context.Context, from string, to string) (decimal.Decimal, error)

func (f RateOracleFunc) Rate(ctx context.Context, from string, to string) (decimal.Decimal, error) {
	return f(ctx, from, to)
}
