package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/api-sage/asset-ledger/src/internal/adapter/events/kafka"
	"github.com/api-sage/asset-ledger/src/internal/adapter/oracle"
	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/asset-ledger/src/internal/config"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/api-sage/asset-ledger/src/internal/usecase/services"
	"github.com/api-sage/asset-ledger/src/migrations"
)

// App holds the wired services and whatever must be closed on shutdown.
type App struct {
	Accounts *services.AccountService
	Ledger   *services.LedgerService
	Balances *services.BalanceService
	Rates    *services.RateService

	closers []func() error
}

// Build wires the store, oracle and publisher selected by cfg. Postgres
// deployments are migrated before anything else touches the database.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{}

	var (
		accountRepo repo_interfaces.AccountRepository
		ledgerStore repo_interfaces.LedgerStore
		rateRepo    repo_interfaces.RateRepository
	)

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := implementations.Open(ctx, cfg.DatabaseDSN, implementations.DefaultPoolOptions())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		app.closers = append(app.closers, db.Close)

		if err := implementations.RunMigrations(ctx, db, migrations.FS); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		accountRepo = implementations.NewAccountRepository(db)
		ledgerStore = implementations.NewLedgerStore(db)
		rateRepo = implementations.NewRateRepository(db)
	default:
		store := memory.NewStore()
		accountRepo = store
		ledgerStore = store
		rateRepo = memory.NewRateRepository(memory.DefaultRates())
	}

	var rateOracle domain.RateOracle
	switch cfg.RateSource {
	case config.RateSourceTable:
		rateOracle = oracle.NewTableOracle(rateRepo, cfg.RateTimeout)
	default:
		rateOracle = oracle.NewHTTPOracle(cfg.RateAPIURL, &http.Client{}, cfg.RateTimeout)
	}

	var publisher domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		app.closers = append(app.closers, kafkaPublisher.Close)
		publisher = kafkaPublisher
	}

	app.Accounts = services.NewAccountService(accountRepo)
	app.Ledger = services.NewLedgerService(accountRepo, ledgerStore, rateOracle, publisher, nil)
	app.Balances = services.NewBalanceService(accountRepo, ledgerStore)
	app.Rates = services.NewRateService(rateRepo, rateOracle)

	logger.Info("application wired", logger.Fields{
		"storeDriver": cfg.StoreDriver,
		"rateSource":  cfg.RateSource,
		"kafka":       publisher != nil,
	})
	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
