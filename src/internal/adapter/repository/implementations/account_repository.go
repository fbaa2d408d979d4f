package implementations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/logger"
)

var _ repo_interfaces.AccountRepository = (*AccountRepository)(nil)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, id *int64) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountId": id,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("account repository begin tx failed", err, nil)
		return domain.Account{}, domain.StoreError("begin create account", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var account domain.Account
	if id == nil {
		const query = `
INSERT INTO accounts DEFAULT VALUES
RETURNING id, created_at`
		err = tx.QueryRowContext(ctx, query).Scan(&account.ID, &account.CreatedAt)
	} else {
		const query = `
INSERT INTO accounts (id) VALUES ($1)
RETURNING id, created_at`
		err = tx.QueryRowContext(ctx, query, *id).Scan(&account.ID, &account.CreatedAt)
		if err == nil {
			// keep the identity sequence ahead of caller-chosen ids
			const bump = `
SELECT setval(pg_get_serial_sequence('accounts', 'id'), (SELECT MAX(id) FROM accounts))`
			_, err = tx.ExecContext(ctx, bump)
		}
	}
	if err != nil {
		if isUniqueViolation(err) {
			logger.Info("account repository duplicate account", logger.Fields{
				"accountId": id,
			})
			return domain.Account{}, domain.ErrDuplicateAccount
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, domain.StoreError("create account", err)
	}

	if err = tx.Commit(); err != nil {
		logger.Error("account repository commit failed", err, nil)
		return domain.Account{}, domain.StoreError("commit create account", err)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId": account.ID,
	})
	return account, nil
}

func (r *AccountRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		logger.Error("account repository exists failed", err, logger.Fields{
			"accountId": id,
		})
		return false, domain.StoreError("check account", err)
	}
	return exists, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `SELECT id, created_at FROM accounts ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("account repository list failed", err, nil)
		return nil, domain.StoreError("list accounts", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.CreatedAt); err != nil {
			return nil, domain.StoreError("scan account", fmt.Errorf("scan: %w", err))
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("iterate accounts", err)
	}
	return accounts, nil
}
