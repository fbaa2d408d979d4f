package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/usecase/services"
)

func TestAccountServiceOpenAccount(t *testing.T) {
	svc := services.NewAccountService(memory.NewStore())
	ctx := context.Background()

	first, err := svc.OpenAccount(ctx, nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	exists, err := svc.Exists(ctx, first.ID)
	if err != nil || !exists {
		t.Fatalf("expected account %d to exist, got %v, %v", first.ID, exists, err)
	}

	id := first.ID
	if _, err := svc.OpenAccount(ctx, &id); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}

	invalid := int64(0)
	if _, err := svc.OpenAccount(ctx, &invalid); !errors.Is(err, domain.ErrInvalidAccountID) {
		t.Fatalf("expected ErrInvalidAccountID, got %v", err)
	}
}

func TestAccountServiceExistsHasNoSideEffects(t *testing.T) {
	svc := services.NewAccountService(memory.NewStore())
	ctx := context.Background()

	for range 2 {
		exists, err := svc.Exists(ctx, 5)
		if err != nil || exists {
			t.Fatalf("expected account 5 to be absent, got %v, %v", exists, err)
		}
	}

	accounts, err := svc.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("expected no accounts, got %d", len(accounts))
	}
}

func TestAccountServiceSeedAccountsOnlyWhenEmpty(t *testing.T) {
	svc := services.NewAccountService(memory.NewStore())
	ctx := context.Background()

	seeded, err := svc.SeedAccounts(ctx, 3)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(seeded) != 3 || seeded[0].ID != 1 || seeded[2].ID != 3 {
		t.Fatalf("expected accounts 1..3, got %+v", seeded)
	}

	again, err := svc.SeedAccounts(ctx, 3)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected second seed to be skipped, got %d accounts", len(again))
	}
}

func TestAccountServiceRepositoryFailure(t *testing.T) {
	svc := services.NewAccountService(accountRepoStub{
		createFn: func(context.Context, *int64) (domain.Account, error) {
			return domain.Account{}, errors.New("disk full")
		},
	})

	if _, err := svc.OpenAccount(context.Background(), nil); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
