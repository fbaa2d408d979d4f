package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/api-sage/asset-ledger/src/internal/config"
	"github.com/google/subcommands"
)

type openAccountCmd struct {
	id int64
}

func (*openAccountCmd) Name() string     { return "open-account" }
func (*openAccountCmd) Synopsis() string { return "register a new account" }
func (*openAccountCmd) Usage() string {
	return `open-account [-id <account number>]

  Opens an account in the configured store and prints its number. Without
  -id the next free number is used. Only useful with STORE_DRIVER=postgres;
  the memory store does not outlive the command.
`
}

func (c *openAccountCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Account number to register. 0 lets the store choose.")
}

func (c *openAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	app, err := Build(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	var id *int64
	if c.id != 0 {
		id = &c.id
	}

	account, err := app.Accounts.OpenAccount(ctx, id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Println(account.ID)
	return subcommands.ExitSuccess
}
