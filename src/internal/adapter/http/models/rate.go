package models

import (
	"errors"
	"strings"

	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type RateResponse struct {
	ID           int64  `json:"id,omitempty"`
	FromCurrency string `json:"fromCurrency"`
	ToCurrency   string `json:"toCurrency"`
	Rate         string `json:"rate"`
	RateDate     string `json:"rateDate,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

type GetRateRequest struct {
	FromCurrency string `json:"fromCurrency"`
	ToCurrency   string `json:"toCurrency"`
}

func (r GetRateRequest) Validate() error {
	var errs []string

	if _, err := domain.NormalizeAsset(r.FromCurrency); err != nil {
		errs = append(errs, "fromCurrency must be 1 to 10 letters or digits")
	}
	if _, err := domain.NormalizeAsset(r.ToCurrency); err != nil {
		errs = append(errs, "toCurrency must be 1 to 10 letters or digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type QuoteRequest struct {
	Amount  string `json:"amount"`
	FromCcy string `json:"fromCcy"`
	ToCcy   string `json:"toCcy"`
}

func (r QuoteRequest) Validate() error {
	var errs []string

	amount := strings.TrimSpace(r.Amount)
	if amount == "" {
		errs = append(errs, "amount is required")
	} else {
		parsedAmount, err := decimal.NewFromString(amount)
		if err != nil {
			errs = append(errs, "amount must be numeric")
		} else if parsedAmount.LessThanOrEqual(decimal.Zero) {
			errs = append(errs, "amount must be greater than zero")
		}
	}

	if _, err := domain.NormalizeAsset(r.FromCcy); err != nil {
		errs = append(errs, "fromCcy must be 1 to 10 letters or digits")
	}
	if _, err := domain.NormalizeAsset(r.ToCcy); err != nil {
		errs = append(errs, "toCcy must be 1 to 10 letters or digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type QuoteResponse struct {
	Amount          string `json:"amount"`
	FromCcy         string `json:"fromCcy"`
	ToCcy           string `json:"toCcy"`
	ConvertedAmount string `json:"convertedAmount"`
	RateUsed        string `json:"rateUsed"`
}
