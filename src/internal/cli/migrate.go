package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/api-sage/asset-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/asset-ledger/src/internal/config"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/api-sage/asset-ledger/src/migrations"
	"github.com/google/subcommands"
)

type migrateCmd struct {
	timeout time.Duration
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply the postgres schema migrations" }
func (*migrateCmd) Usage() string {
	return `migrate [-timeout <duration>]

  Applies every embedded migration that has not been recorded in
  schema_migrations yet. Uses DATABASE_DSN regardless of STORE_DRIVER.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "Overall time limit for the migration run.")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	db, err := implementations.Open(ctx, cfg.DatabaseDSN, implementations.DefaultPoolOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := implementations.RunMigrations(ctx, db, migrations.FS); err != nil {
		fmt.Fprintf(os.Stderr, "run migrations: %v\n", err)
		return subcommands.ExitFailure
	}

	logger.Info("migrations completed successfully", nil)
	return subcommands.ExitSuccess
}
