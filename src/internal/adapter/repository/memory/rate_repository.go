package memory

import (
	"context"
	"strings"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

var _ repo_interfaces.RateRepository = (*RateRepository)(nil)

// RateRepository serves a fixed rate sheet.
type RateRepository struct {
	rates []domain.Rate
}

func NewRateRepository(rates []domain.Rate) *RateRepository {
	return &RateRepository{rates: rates}
}

// DefaultRates mirrors the rows seeded by the rates migration.
func DefaultRates() []domain.Rate {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	sheet := []struct {
		from, to, rate string
	}{
		{"USD", "BTC", "0.00002"},
		{"BTC", "USD", "50000"},
		{"USD", "ETH", "0.0004"},
		{"ETH", "USD", "2500"},
		{"BTC", "ETH", "20"},
		{"ETH", "BTC", "0.05"},
		{"EUR", "USD", "1.1845"},
		{"USD", "EUR", "0.84423808"},
	}

	rates := make([]domain.Rate, 0, len(sheet))
	for i, row := range sheet {
		rates = append(rates, domain.Rate{
			ID:           int64(i + 1),
			FromCurrency: row.from,
			ToCurrency:   row.to,
			Rate:         decimal.RequireFromString(row.rate),
			RateDate:     today,
			CreatedAt:    today,
		})
	}
	return rates
}

func (r *RateRepository) GetRates(_ context.Context) ([]domain.Rate, error) {
	rates := make([]domain.Rate, len(r.rates))
	copy(rates, r.rates)
	return rates, nil
}

func (r *RateRepository) GetRate(_ context.Context, fromCurrency string, toCurrency string) (domain.Rate, error) {
	for _, rate := range r.rates {
		if strings.EqualFold(rate.FromCurrency, fromCurrency) && strings.EqualFold(rate.ToCurrency, toCurrency) {
			return rate, nil
		}
	}
	return domain.Rate{}, domain.ErrRecordNotFound
}
