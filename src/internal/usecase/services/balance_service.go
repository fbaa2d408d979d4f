package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/api-sage/asset-ledger/src/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

var _ service_interfaces.BalanceService = (*BalanceService)(nil)

// BalanceService answers balance queries. Without a window it reads the
// materialized balances; with a window it sums the transactions inside it,
// so the result is the net change over that period rather than a historical
// balance.
type BalanceService struct {
	accountRepo repo_interfaces.AccountRepository
	store       repo_interfaces.LedgerStore
}

func NewBalanceService(accountRepo repo_interfaces.AccountRepository, store repo_interfaces.LedgerStore) *BalanceService {
	return &BalanceService{accountRepo: accountRepo, store: store}
}

func (s *BalanceService) Balances(ctx context.Context, query domain.BalanceQuery) ([]domain.AssetBalance, error) {
	logger.Info("balance service query request", logger.Fields{
		"accountId": query.AccountID,
		"asset":     query.Asset,
		"start":     query.Start,
		"end":       query.End,
	})

	query, err := s.validate(ctx, query)
	if err != nil {
		logger.Error("balance service query validation failed", err, logger.Fields{
			"accountId": query.AccountID,
		})
		return nil, err
	}

	var balances []domain.AssetBalance
	switch {
	case query.Windowed():
		balances, err = s.windowed(ctx, query)
	case query.Asset != "":
		balances, err = s.single(ctx, query)
	default:
		balances, err = s.store.ListBalances(ctx, query.AccountID)
	}
	if err != nil {
		err = domain.StoreError("query balances", err)
		logger.Error("balance service query failed", err, logger.Fields{
			"accountId": query.AccountID,
		})
		return nil, err
	}

	slices.SortFunc(balances, func(a, b domain.AssetBalance) int {
		return cmp.Compare(a.Asset, b.Asset)
	})

	logger.Info("balance service query success", logger.Fields{
		"accountId": query.AccountID,
		"count":     len(balances),
	})
	return balances, nil
}

func (s *BalanceService) validate(ctx context.Context, query domain.BalanceQuery) (domain.BalanceQuery, error) {
	if query.Asset != "" {
		asset, err := domain.NormalizeAsset(query.Asset)
		if err != nil {
			return query, err
		}
		query.Asset = asset
	}
	if query.Windowed() {
		if query.Start == nil || query.End == nil {
			return query, fmt.Errorf("%w: start and end are both required", domain.ErrInvalidWindow)
		}
		if query.Start.After(*query.End) {
			return query, fmt.Errorf("%w: start is after end", domain.ErrInvalidWindow)
		}
	}

	exists, err := s.accountRepo.Exists(ctx, query.AccountID)
	if err != nil {
		return query, domain.StoreError("check account", err)
	}
	if !exists {
		return query, fmt.Errorf("%w: %d", domain.ErrAccountNotFound, query.AccountID)
	}
	return query, nil
}

// single reports one asset, zero when the account never held it.
func (s *BalanceService) single(ctx context.Context, query domain.BalanceQuery) ([]domain.AssetBalance, error) {
	amount, err := s.store.GetBalance(ctx, query.AccountID, query.Asset)
	if err != nil {
		return nil, err
	}
	return []domain.AssetBalance{{
		AccountID: query.AccountID,
		Asset:     query.Asset,
		Amount:    amount,
	}}, nil
}

func (s *BalanceService) windowed(ctx context.Context, query domain.BalanceQuery) ([]domain.AssetBalance, error) {
	filter := domain.TransactionFilter{
		AccountID: query.AccountID,
		Asset:     query.Asset,
		Start:     query.Start,
		End:       query.End,
	}

	deltas := make(map[string]decimal.Decimal)
	for tx, err := range s.store.QueryTransactions(ctx, filter) {
		if err != nil {
			return nil, err
		}
		deltas[tx.Asset] = deltas[tx.Asset].Add(tx.Amount)
	}
	if query.Asset != "" {
		if _, ok := deltas[query.Asset]; !ok {
			deltas[query.Asset] = decimal.Zero
		}
	}

	balances := make([]domain.AssetBalance, 0, len(deltas))
	for asset, amount := range deltas {
		balances = append(balances, domain.AssetBalance{
			AccountID: query.AccountID,
			Asset:     asset,
			Amount:    amount,
			UpdatedAt: *query.End,
		})
	}
	return balances, nil
}
