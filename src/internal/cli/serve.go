package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/asset-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/asset-ledger/src/internal/config"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/google/subcommands"
)

const shutdownTimeout = 15 * time.Second

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the ledger HTTP API" }
func (*serveCmd) Usage() string {
	return `serve [-addr <host:port>]

  Wires the configured store, rate source and event publisher, seeds the
  initial accounts when the registry is empty, and serves the HTTP API until
  interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Overrides HTTP_ADDR.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.HTTPAddr = c.addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		logger.Error("server stopped with error", err, nil)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func serve(ctx context.Context, cfg config.Config) error {
	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close application resources failed", err, nil)
		}
	}()

	if _, err := app.Accounts.SeedAccounts(ctx, cfg.SeedAccounts); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}

	mux := router.New(
		controller.NewAccountController(app.Accounts),
		controller.NewLedgerController(app.Ledger),
		controller.NewBalanceController(app.Balances),
		controller.NewRateController(app.Rates),
	)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{"addr": cfg.HTTPAddr})
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
