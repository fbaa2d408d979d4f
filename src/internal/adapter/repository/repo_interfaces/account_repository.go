package repo_interfaces

import (
	"context"

	"github.com/api-sage/asset-ledger/src/internal/domain"
)

// AccountRepository is the account registry. Create with a nil id lets the
// store allocate the next identifier.
type AccountRepository interface {
	Create(ctx context.Context, id *int64) (domain.Account, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.Account, error)
}
