package service_interfaces

import (
	"context"

	"github.com/api-sage/asset-ledger/src/internal/domain"
)

type AccountService interface {
	OpenAccount(ctx context.Context, id *int64) (domain.Account, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	SeedAccounts(ctx context.Context, count int) ([]domain.Account, error)
}
