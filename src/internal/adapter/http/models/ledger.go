package models

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	AssetType  string          `json:"asset_type"`
	DepositAmt decimal.Decimal `json:"deposit_amt"`
}

func (r DepositRequest) Validate() error {
	return validateAsset(r.AssetType, "asset_type")
}

type WithdrawRequest struct {
	AssetType     string          `json:"asset_type"`
	WithdrawalAmt decimal.Decimal `json:"withdrawal_amt"`
}

func (r WithdrawRequest) Validate() error {
	return validateAsset(r.AssetType, "asset_type")
}

type ExchangeRequest struct {
	SrcAccNo      int64           `json:"src_acc_no"`
	DestAccNo     int64           `json:"dest_acc_no"`
	SrcAssetType  string          `json:"src_asset_type"`
	DestAssetType string          `json:"dest_asset_type"`
	TransferAmt   decimal.Decimal `json:"transfer_amt"`
}

func (r ExchangeRequest) Validate() error {
	var errs []string

	if r.SrcAccNo <= 0 {
		errs = append(errs, "src_acc_no must be greater than zero")
	}
	if r.DestAccNo <= 0 {
		errs = append(errs, "dest_acc_no must be greater than zero")
	}
	if strings.TrimSpace(r.SrcAssetType) == "" {
		errs = append(errs, "src_asset_type is required")
	}
	if strings.TrimSpace(r.DestAssetType) == "" {
		errs = append(errs, "dest_asset_type is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ConfirmationResponse struct {
	AccountNo     int64  `json:"accountNo"`
	AssetType     string `json:"assetType"`
	Amount        string `json:"amount"`
	TransactionID int64  `json:"transactionId"`
	Timestamp     string `json:"timestamp"`
}

type ExchangeResponse struct {
	SrcAccNo      int64  `json:"srcAccNo"`
	DestAccNo     int64  `json:"destAccNo"`
	SrcAssetType  string `json:"srcAssetType"`
	DestAssetType string `json:"destAssetType"`
	TransferAmt   string `json:"transferAmt"`
	ExchangeAmt   string `json:"exchangeAmt"`
	Price         string `json:"price"`
	WithdrawalID  int64  `json:"withdrawalTransactionId"`
	DepositID     int64  `json:"depositTransactionId"`
}

type BalanceResponse struct {
	AccountNo int64             `json:"accountNo"`
	Balances  map[string]string `json:"balances"`
	Start     string            `json:"start,omitempty"`
	End       string            `json:"end,omitempty"`
}

type TransactionResponse struct {
	ID        int64  `json:"id"`
	AssetType string `json:"assetType"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
}

// ParseTimestamp accepts RFC3339 or unix seconds.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, errors.New("timestamp must be RFC3339 or unix seconds")
	}
	return time.Unix(seconds, 0).UTC(), nil
}

// Amounts accept JSON numbers or quoted strings. The sign is left to the
// ledger so that it reports ErrInvalidAmount consistently.
func validateAsset(asset, field string) error {
	if strings.TrimSpace(asset) == "" {
		return errors.New(field + " is required")
	}
	return nil
}
