package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type resetCmd struct{}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "reset the portfolio to the starting balance" }
func (*resetCmd) Usage() string {
	return `papertrade reset

  Empties holdings and pending orders, restores the starting balance and
  removes the persisted state.
`
}

func (*resetCmd) SetFlags(*flag.FlagSet) {}

func (*resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := a.session.Reset(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Portfolio has been reset to %s.\n", formatMoney(a.cfg.StartingBalance))
	return subcommands.ExitSuccess
}
