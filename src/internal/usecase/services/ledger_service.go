package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/api-sage/asset-ledger/src/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ service_interfaces.LedgerService = (*LedgerService)(nil)

const publishTimeout = 5 * time.Second

// LedgerService applies deposits, withdrawals and exchanges. It keeps no
// state between calls; all consistency comes from the store's transactions.
type LedgerService struct {
	accountRepo repo_interfaces.AccountRepository
	store       repo_interfaces.LedgerStore
	oracle      domain.RateOracle
	publisher   domain.EventPublisher
	now         func() time.Time
}

// NewLedgerService wires the engine. publisher and now may be nil.
func NewLedgerService(
	accountRepo repo_interfaces.AccountRepository,
	store repo_interfaces.LedgerStore,
	oracle domain.RateOracle,
	publisher domain.EventPublisher,
	now func() time.Time,
) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{
		accountRepo: accountRepo,
		store:       store,
		oracle:      oracle,
		publisher:   publisher,
		now:         now,
	}
}

func (s *LedgerService) Deposit(ctx context.Context, accountID int64, asset string, amount decimal.Decimal) (domain.Confirmation, error) {
	logger.Info("ledger service deposit request", logger.Fields{
		"accountId": accountID,
		"asset":     asset,
		"amount":    amount,
	})

	asset, err := s.validate(ctx, amount, asset, accountID)
	if err != nil {
		logger.Error("ledger service deposit validation failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Confirmation{}, err
	}

	var record domain.Transaction
	err = s.store.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		record, err = s.credit(ctx, tx, accountID, asset, amount)
		return err
	})
	if err != nil {
		logger.Error("ledger service deposit failed", err, logger.Fields{
			"accountId": accountID,
			"asset":     asset,
		})
		return domain.Confirmation{}, err
	}

	logger.Info("ledger service deposit success", logger.Fields{
		"accountId":     accountID,
		"asset":         asset,
		"transactionId": record.ID,
	})

	s.publish(ctx, domain.LedgerEvent{
		Type:          domain.LedgerEventDeposit,
		AccountID:     accountID,
		Asset:         asset,
		Amount:        amount,
		TransactionID: []int64{record.ID},
		OccurredAt:    record.Timestamp,
	})

	return domain.Confirmation{AccountID: accountID, Asset: asset, Amount: amount, Transaction: record}, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID int64, asset string, amount decimal.Decimal) (domain.Confirmation, error) {
	logger.Info("ledger service withdraw request", logger.Fields{
		"accountId": accountID,
		"asset":     asset,
		"amount":    amount,
	})

	asset, err := s.validate(ctx, amount, asset, accountID)
	if err != nil {
		logger.Error("ledger service withdraw validation failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Confirmation{}, err
	}

	var record domain.Transaction
	err = s.store.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		record, err = s.debit(ctx, tx, accountID, asset, amount)
		return err
	})
	if err != nil {
		logger.Error("ledger service withdraw failed", err, logger.Fields{
			"accountId": accountID,
			"asset":     asset,
		})
		return domain.Confirmation{}, err
	}

	logger.Info("ledger service withdraw success", logger.Fields{
		"accountId":     accountID,
		"asset":         asset,
		"transactionId": record.ID,
	})

	s.publish(ctx, domain.LedgerEvent{
		Type:          domain.LedgerEventWithdraw,
		AccountID:     accountID,
		Asset:         asset,
		Amount:        amount,
		TransactionID: []int64{record.ID},
		OccurredAt:    record.Timestamp,
	})

	return domain.Confirmation{AccountID: accountID, Asset: asset, Amount: amount, Transaction: record}, nil
}

// Exchange debits SrcAsset from the source account and credits the converted
// amount of DestAsset to the destination account. Both legs commit together
// or not at all; the rate is fetched before anything is written.
func (s *LedgerService) Exchange(ctx context.Context, req domain.ExchangeRequest) (domain.ExchangeResult, error) {
	logger.Info("ledger service exchange request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	srcAsset, err := s.validate(ctx, req.TransferAmt, req.SrcAsset, req.SrcAccountID)
	if err != nil {
		logger.Error("ledger service exchange validation failed", err, logger.Fields{
			"srcAccountId": req.SrcAccountID,
		})
		return domain.ExchangeResult{}, err
	}
	destAsset, err := domain.NormalizeAsset(req.DestAsset)
	if err != nil {
		logger.Error("ledger service exchange validation failed", err, logger.Fields{
			"destAsset": req.DestAsset,
		})
		return domain.ExchangeResult{}, err
	}
	if err := s.requireAccount(ctx, req.DestAccountID); err != nil {
		logger.Error("ledger service exchange validation failed", err, logger.Fields{
			"destAccountId": req.DestAccountID,
		})
		return domain.ExchangeResult{}, err
	}

	result := domain.ExchangeResult{
		SrcAccountID:  req.SrcAccountID,
		DestAccountID: req.DestAccountID,
		SrcAsset:      srcAsset,
		DestAsset:     destAsset,
		TransferAmt:   req.TransferAmt,
		ExchangeAmt:   req.TransferAmt,
		Price:         decimal.NewFromInt(1),
	}

	if srcAsset != destAsset {
		price, err := s.oracle.Rate(ctx, srcAsset, destAsset)
		if err != nil {
			err = domain.RateError(srcAsset, destAsset, err)
			logger.Error("ledger service exchange rate lookup failed", err, logger.Fields{
				"srcAsset":  srcAsset,
				"destAsset": destAsset,
			})
			return domain.ExchangeResult{}, err
		}
		if !price.IsPositive() {
			err := domain.RateError(srcAsset, destAsset, fmt.Errorf("non-positive price %s", price))
			return domain.ExchangeResult{}, err
		}
		result.Price = price
		result.ExchangeAmt = req.TransferAmt.Mul(price).RoundDown(domain.AmountScale)
		if !result.ExchangeAmt.IsPositive() {
			err := fmt.Errorf("%w: %s %s converts to zero %s", domain.ErrInvalidAmount, req.TransferAmt, srcAsset, destAsset)
			logger.Error("ledger service exchange validation failed", err, logger.Fields{
				"price": price,
			})
			return domain.ExchangeResult{}, err
		}
	}

	// nothing has been written yet, so a cancelled caller simply stops here
	if err := ctx.Err(); err != nil {
		return domain.ExchangeResult{}, err
	}

	err = s.store.RunInTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		if err := lockInOrder(ctx, tx,
			balanceRef{req.SrcAccountID, srcAsset},
			balanceRef{req.DestAccountID, destAsset},
		); err != nil {
			return err
		}

		withdrawal, err := s.debit(ctx, tx, req.SrcAccountID, srcAsset, req.TransferAmt)
		if err != nil {
			return err
		}
		deposit, err := s.credit(ctx, tx, req.DestAccountID, destAsset, result.ExchangeAmt)
		if err != nil {
			return fmt.Errorf("exchange deposit leg: %w", err)
		}

		result.Withdrawal = withdrawal
		result.Deposit = deposit
		return nil
	})
	if err != nil {
		logger.Error("ledger service exchange rolled back", err, logger.Fields{
			"srcAccountId":  req.SrcAccountID,
			"destAccountId": req.DestAccountID,
		})
		return domain.ExchangeResult{}, err
	}

	logger.Info("ledger service exchange success", logger.Fields{
		"srcAccountId":  result.SrcAccountID,
		"destAccountId": result.DestAccountID,
		"transferAmt":   result.TransferAmt,
		"exchangeAmt":   result.ExchangeAmt,
		"price":         result.Price,
	})

	s.publish(ctx, domain.LedgerEvent{
		Type:          domain.LedgerEventExchange,
		AccountID:     result.SrcAccountID,
		Asset:         result.SrcAsset,
		Amount:        result.TransferAmt,
		DestAccountID: result.DestAccountID,
		DestAsset:     result.DestAsset,
		DestAmount:    result.ExchangeAmt,
		TransactionID: []int64{result.Withdrawal.ID, result.Deposit.ID},
		OccurredAt:    result.Deposit.Timestamp,
	})

	return result, nil
}

// Transactions returns the recorded history of an account, oldest first.
func (s *LedgerService) Transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if err := s.requireAccount(ctx, filter.AccountID); err != nil {
		return nil, err
	}
	if filter.Asset != "" {
		asset, err := domain.NormalizeAsset(filter.Asset)
		if err != nil {
			return nil, err
		}
		filter.Asset = asset
	}

	history := make([]domain.Transaction, 0)
	for tx, err := range s.store.QueryTransactions(ctx, filter) {
		if err != nil {
			return nil, err
		}
		history = append(history, tx)
	}
	return history, nil
}

// debit checks the locked balance and appends the negative leg.
func (s *LedgerService) debit(ctx context.Context, tx repo_interfaces.LedgerTx, accountID int64, asset string, amount decimal.Decimal) (domain.Transaction, error) {
	balance, err := tx.LockBalance(ctx, accountID, asset)
	if err != nil {
		return domain.Transaction{}, err
	}
	if balance.LessThan(amount) {
		return domain.Transaction{}, fmt.Errorf("%w: account %d holds %s %s, requested %s",
			domain.ErrInsufficientBalance, accountID, balance, asset, amount)
	}
	return tx.AppendTransaction(ctx, accountID, asset, amount.Neg(), s.now())
}

// credit locks the balance and appends the positive leg, refusing a result
// the balance column cannot hold.
func (s *LedgerService) credit(ctx context.Context, tx repo_interfaces.LedgerTx, accountID int64, asset string, amount decimal.Decimal) (domain.Transaction, error) {
	balance, err := tx.LockBalance(ctx, accountID, asset)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := domain.CheckAmountRange(balance.Add(amount)); err != nil {
		return domain.Transaction{}, fmt.Errorf("account %d %s: %w", accountID, asset, err)
	}
	return tx.AppendTransaction(ctx, accountID, asset, amount, s.now())
}

func (s *LedgerService) validate(ctx context.Context, amount decimal.Decimal, asset string, accountID int64) (string, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return "", err
	}
	symbol, err := domain.NormalizeAsset(asset)
	if err != nil {
		return "", err
	}
	if err := s.requireAccount(ctx, accountID); err != nil {
		return "", err
	}
	return symbol, nil
}

func (s *LedgerService) requireAccount(ctx context.Context, accountID int64) error {
	exists, err := s.accountRepo.Exists(ctx, accountID)
	if err != nil {
		return domain.StoreError("check account", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", domain.ErrAccountNotFound, accountID)
	}
	return nil
}

// publish runs after commit; a failure is logged and otherwise ignored.
func (s *LedgerService) publish(ctx context.Context, event domain.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	event.ID = uuid.NewString()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Error("ledger service publish event failed", err, logger.Fields{
			"eventId":   event.ID,
			"eventType": event.Type,
		})
	}
}

type balanceRef struct {
	accountID int64
	asset     string
}

// lockInOrder locks balance rows in (account, asset) order so that two
// exchanges touching the same rows cannot deadlock.
func lockInOrder(ctx context.Context, tx repo_interfaces.LedgerTx, refs ...balanceRef) error {
	slices.SortFunc(refs, func(a, b balanceRef) int {
		if c := cmp.Compare(a.accountID, b.accountID); c != 0 {
			return c
		}
		return cmp.Compare(a.asset, b.asset)
	})
	refs = slices.Compact(refs)

	for _, ref := range refs {
		if _, err := tx.LockBalance(ctx, ref.accountID, ref.asset); err != nil {
			return err
		}
	}
	return nil
}
