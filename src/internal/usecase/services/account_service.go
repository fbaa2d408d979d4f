package services

import (
	"context"
	"fmt"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/api-sage/asset-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.AccountService = (*AccountService)(nil)

// AccountService is the account registry. Accounts are created once and
// never deleted.
type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// OpenAccount registers a new account. A nil id lets the store pick the next
// free identifier.
func (s *AccountService) OpenAccount(ctx context.Context, id *int64) (domain.Account, error) {
	logger.Info("account service open account request", logger.Fields{
		"accountId": id,
	})

	if id != nil && *id <= 0 {
		logger.Error("account service open account validation failed", domain.ErrInvalidAccountID, logger.Fields{
			"accountId": *id,
		})
		return domain.Account{}, domain.ErrInvalidAccountID
	}

	account, err := s.accountRepo.Create(ctx, id)
	if err != nil {
		err = domain.StoreError("create account", err)
		logger.Error("account service open account failed", err, nil)
		return domain.Account{}, err
	}

	logger.Info("account service open account success", logger.Fields{
		"accountId": account.ID,
	})

	return account, nil
}

func (s *AccountService) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	exists, err := s.accountRepo.Exists(ctx, id)
	if err != nil {
		return false, domain.StoreError("check account", err)
	}
	return exists, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		err = domain.StoreError("list accounts", err)
		logger.Error("account service list accounts failed", err, nil)
		return nil, err
	}
	return accounts, nil
}

// SeedAccounts opens count accounts when the registry is still empty, so a
// fresh deployment has something to work with.
func (s *AccountService) SeedAccounts(ctx context.Context, count int) ([]domain.Account, error) {
	if count <= 0 {
		return nil, nil
	}

	existing, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		logger.Info("account service seed skipped", logger.Fields{
			"existing": len(existing),
		})
		return nil, nil
	}

	seeded := make([]domain.Account, 0, count)
	for range count {
		account, err := s.accountRepo.Create(ctx, nil)
		if err != nil {
			return seeded, fmt.Errorf("seed account %d: %w", len(seeded)+1, domain.StoreError("create account", err))
		}
		seeded = append(seeded, account)
	}

	logger.Info("account service seed success", logger.Fields{
		"count": len(seeded),
	})
	return seeded, nil
}
