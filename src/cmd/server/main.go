package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/api-sage/asset-ledger/src/internal/cli"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range cli.Commands {
		commander.Register(c, "")
	}

	args := os.Args[1:]
	if len(args) == 0 {
		// no subcommand: behave like the long-running server
		args = []string{"serve"}
	}
	_ = flag.CommandLine.Parse(args)
	os.Exit(int(commander.Execute(context.Background())))
}
