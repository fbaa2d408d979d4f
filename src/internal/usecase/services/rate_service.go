package services

import (
	"context"
	"errors"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/commons"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/api-sage/asset-ledger/src/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

// Verify that RateService implements the service_interfaces.RateService interface
var _ service_interfaces.RateService = (*RateService)(nil)

// RateService exposes the rate oracle read-only. Exchanges never go through
// it; the ledger service asks the oracle directly.
type RateService struct {
	rateRepo repo_interfaces.RateRepository
	oracle   domain.RateOracle
}

// NewRateService accepts a nil rateRepo when no local rate sheet is kept.
func NewRateService(rateRepo repo_interfaces.RateRepository, oracle domain.RateOracle) *RateService {
	return &RateService{rateRepo: rateRepo, oracle: oracle}
}

func (s *RateService) GetRates(ctx context.Context) (commons.Response[[]models.RateResponse], error) {
	logger.Info("rate service get rates request", nil)

	if s.rateRepo == nil {
		return commons.SuccessResponse("rates fetched successfully", []models.RateResponse{}), nil
	}

	rates, err := s.rateRepo.GetRates(ctx)
	if err != nil {
		logger.Error("rate service get rates failed", err, nil)
		return commons.ErrorResponse[[]models.RateResponse]("failed to get rates", "Unable to fetch rates right now"), domain.StoreError("get rates", err)
	}

	resp := make([]models.RateResponse, 0, len(rates))
	for _, rate := range rates {
		resp = append(resp, mapRateToResponse(rate))
	}

	logger.Info("rate service get rates success", logger.Fields{
		"count": len(resp),
	})

	return commons.SuccessResponse("rates fetched successfully", resp), nil
}

func (s *RateService) GetRate(ctx context.Context, req models.GetRateRequest) (commons.Response[models.RateResponse], error) {
	logger.Info("rate service get rate request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("rate service get rate validation failed", err, nil)
		return commons.ErrorResponse[models.RateResponse]("validation failed", err.Error()), errors.Join(domain.ErrInvalidAsset, err)
	}

	from, _ := domain.NormalizeAsset(req.FromCurrency)
	to, _ := domain.NormalizeAsset(req.ToCurrency)

	price, err := s.price(ctx, from, to)
	if err != nil {
		logger.Error("rate service get rate failed", err, logger.Fields{
			"fromCurrency": from,
			"toCurrency":   to,
		})
		return commons.ErrorResponse[models.RateResponse]("Rate not available", "Unable to fetch rate right now"), err
	}

	response := models.RateResponse{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         price.String(),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	logger.Info("rate service get rate success", logger.Fields{
		"fromCurrency": from,
		"toCurrency":   to,
		"rate":         response.Rate,
	})

	return commons.SuccessResponse("rate fetched successfully", response), nil
}

// ConvertRate returns amount expressed in to, rounded down the way an
// exchange would credit it, and the price used.
func (s *RateService) ConvertRate(ctx context.Context, amount decimal.Decimal, from string, to string) (decimal.Decimal, decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	fromAsset, err := domain.NormalizeAsset(from)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	toAsset, err := domain.NormalizeAsset(to)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}

	price, err := s.price(ctx, fromAsset, toAsset)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return amount.Mul(price).RoundDown(domain.AmountScale), price, nil
}

func (s *RateService) Quote(ctx context.Context, req models.QuoteRequest) (commons.Response[models.QuoteResponse], error) {
	logger.Info("rate service quote request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("rate service quote validation failed", err, nil)
		return commons.ErrorResponse[models.QuoteResponse]("validation failed", err.Error()), errors.Join(domain.ErrInvalidAmount, err)
	}

	amount, _ := decimal.NewFromString(req.Amount)
	converted, price, err := s.ConvertRate(ctx, amount, req.FromCcy, req.ToCcy)
	if err != nil {
		logger.Error("rate service quote failed", err, logger.Fields{
			"fromCcy": req.FromCcy,
			"toCcy":   req.ToCcy,
		})
		return commons.ErrorResponse[models.QuoteResponse]("Rate not available", "Unable to fetch rate right now"), err
	}

	from, _ := domain.NormalizeAsset(req.FromCcy)
	to, _ := domain.NormalizeAsset(req.ToCcy)
	response := models.QuoteResponse{
		Amount:          amount.String(),
		FromCcy:         from,
		ToCcy:           to,
		ConvertedAmount: converted.String(),
		RateUsed:        price.String(),
	}

	logger.Info("rate service quote success", logger.Fields{
		"fromCcy":         response.FromCcy,
		"toCcy":           response.ToCcy,
		"convertedAmount": response.ConvertedAmount,
	})

	return commons.SuccessResponse("quote fetched successfully", response), nil
}

func (s *RateService) price(ctx context.Context, from string, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	price, err := s.oracle.Rate(ctx, from, to)
	if err != nil {
		return decimal.Decimal{}, domain.RateError(from, to, err)
	}
	return price, nil
}

func mapRateToResponse(rate domain.Rate) models.RateResponse {
	return models.RateResponse{
		ID:           rate.ID,
		FromCurrency: rate.FromCurrency,
		ToCurrency:   rate.ToCurrency,
		Rate:         rate.Rate.String(),
		RateDate:     rate.RateDate.Format("2006-01-02"),
		CreatedAt:    rate.CreatedAt.Format(time.RFC3339),
	}
}
