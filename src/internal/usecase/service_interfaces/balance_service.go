package service_interfaces

import (
	"context"

	"github.com/api-sage/asset-ledger/src/internal/domain"
)

type BalanceService interface {
	Balances(ctx context.Context, query domain.BalanceQuery) ([]domain.AssetBalance, error)
}
