package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const MaxAssetLength = 10

// AssetBalance is the materialized balance of one asset held by one account.
// There is at most one row per (AccountID, Asset).
type AssetBalance struct {
	AccountID int64
	Asset     string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}

// NormalizeAsset trims and upper-cases an asset symbol.
func NormalizeAsset(asset string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(asset))
	if symbol == "" || len(symbol) > MaxAssetLength {
		return "", ErrInvalidAsset
	}
	for _, ch := range symbol {
		if (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') {
			return "", ErrInvalidAsset
		}
	}
	return symbol, nil
}
