// Package cli holds the ledger's subcommands.
package cli

import "github.com/google/subcommands"

var Commands = []subcommands.Command{
	&serveCmd{},
	&migrateCmd{},
	&openAccountCmd{},
}
