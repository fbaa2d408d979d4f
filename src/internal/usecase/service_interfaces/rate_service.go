package service_interfaces

import (
	"context"

	"github.com/api-sage/asset-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/asset-ledger/src/internal/commons"
	"github.com/shopspring/decimal"
)

type RateService interface {
	GetRates(ctx context.Context) (commons.Response[[]models.RateResponse], error)
	GetRate(ctx context.Context, req models.GetRateRequest) (commons.Response[models.RateResponse], error)
	ConvertRate(ctx context.Context, amount decimal.Decimal, from string, to string) (decimal.Decimal, decimal.Decimal, error)
	Quote(ctx context.Context, req models.QuoteRequest) (commons.Response[models.QuoteResponse], error)
}
