package memory

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	_ repo_interfaces.AccountRepository = (*Store)(nil)
	_ repo_interfaces.LedgerStore       = (*Store)(nil)
)

type balanceKey struct {
	accountID int64
	asset     string
}

// Store keeps accounts, balances and transactions in process memory.
//
// RunInTx holds the write lock for the whole transaction and stages its
// writes, so readers only ever observe committed state.
type Store struct {
	mu            sync.RWMutex
	accounts      map[int64]domain.Account
	balances      map[balanceKey]domain.AssetBalance
	transactions  []domain.Transaction
	lastAccountID int64
	lastTxID      int64
	lastTimestamp time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]domain.Account),
		balances: make(map[balanceKey]domain.AssetBalance),
	}
}

func (s *Store) Create(ctx context.Context, id *int64) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, domain.StoreError("create account", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accountID := s.lastAccountID + 1
	if id != nil {
		accountID = *id
	}
	if _, exists := s.accounts[accountID]; exists {
		return domain.Account{}, domain.ErrDuplicateAccount
	}

	account := domain.Account{ID: accountID, CreatedAt: time.Now().UTC()}
	s.accounts[accountID] = account
	if accountID > s.lastAccountID {
		s.lastAccountID = accountID
	}
	return account, nil
}

func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.StoreError("account exists", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.accounts[id]
	return exists, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("list accounts", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	slices.SortFunc(accounts, func(a, b domain.Account) int { return cmp.Compare(a.ID, b.ID) })
	return accounts, nil
}

func (s *Store) RunInTx(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("begin transaction", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store:    s,
		balances: make(map[balanceKey]domain.AssetBalance),
		lastTxID: s.lastTxID,
		lastTS:   s.lastTimestamp,
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.StoreError("commit transaction", err)
	}

	for key, row := range tx.balances {
		s.balances[key] = row
	}
	s.transactions = append(s.transactions, tx.pending...)
	s.lastTxID = tx.lastTxID
	s.lastTimestamp = tx.lastTS
	return nil
}

func (s *Store) GetBalance(ctx context.Context, accountID int64, asset string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, domain.StoreError("get balance", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[balanceKey{accountID, asset}].Amount, nil
}

func (s *Store) ListBalances(ctx context.Context, accountID int64) ([]domain.AssetBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("list balances", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var balances []domain.AssetBalance
	for key, row := range s.balances {
		if key.accountID == accountID {
			balances = append(balances, row)
		}
	}
	return balances, nil
}

// QueryTransactions snapshots the matching transactions when iteration
// starts. Each range over the returned sequence takes a fresh snapshot.
func (s *Store) QueryTransactions(ctx context.Context, filter domain.TransactionFilter) iter.Seq2[domain.Transaction, error] {
	return func(yield func(domain.Transaction, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(domain.Transaction{}, domain.StoreError("query transactions", err))
			return
		}

		s.mu.RLock()
		matched := make([]domain.Transaction, 0)
		for _, tx := range s.transactions {
			if filter.Match(tx) {
				matched = append(matched, tx)
			}
		}
		s.mu.RUnlock()

		for _, tx := range matched {
			if !yield(tx, nil) {
				return
			}
		}
	}
}

// memoryTx stages writes until the owning RunInTx commits. It is only used
// while the store's write lock is held.
type memoryTx struct {
	store    *Store
	balances map[balanceKey]domain.AssetBalance
	pending  []domain.Transaction
	lastTxID int64
	lastTS   time.Time
}

func (t *memoryTx) LockBalance(ctx context.Context, accountID int64, asset string) (decimal.Decimal, error) {
	return t.row(accountID, asset).Amount, nil
}

func (t *memoryTx) AppendTransaction(ctx context.Context, accountID int64, asset string, amount decimal.Decimal, ts time.Time) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, domain.StoreError("append transaction", err)
	}

	row := t.row(accountID, asset)
	if row.Amount.Add(amount).IsNegative() {
		return domain.Transaction{}, domain.ErrInsufficientBalance
	}

	ts = ts.UTC()
	if ts.Before(t.lastTS) {
		ts = t.lastTS
	}
	t.lastTS = ts
	t.lastTxID++

	record := domain.Transaction{
		ID:        t.lastTxID,
		AccountID: accountID,
		Asset:     asset,
		Amount:    amount,
		Timestamp: ts,
	}
	t.pending = append(t.pending, record)

	row.Amount = row.Amount.Add(amount)
	row.UpdatedAt = ts
	t.balances[balanceKey{accountID, asset}] = row
	return record, nil
}

// row returns the staged balance row, creating a zero row on first use.
func (t *memoryTx) row(accountID int64, asset string) domain.AssetBalance {
	key := balanceKey{accountID, asset}
	if row, ok := t.balances[key]; ok {
		return row
	}
	row, ok := t.store.balances[key]
	if !ok {
		row = domain.AssetBalance{AccountID: accountID, Asset: asset, Amount: decimal.Zero}
	}
	t.balances[key] = row
	return row
}
