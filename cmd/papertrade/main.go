// papertrade is a simulated BSE equity trading app: it tracks a virtual cash
// balance and share holdings, places market and limit orders against live
// quotes, and settles pending limit orders on demand.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&buyCmd{}, "trading")
	subcommands.Register(&sellCmd{}, "trading")
	subcommands.Register(&limitCmd{}, "trading")
	subcommands.Register(&cancelCmd{}, "trading")
	subcommands.Register(&settleCmd{}, "trading")

	subcommands.Register(&portfolioCmd{}, "reports")
	subcommands.Register(&pendingCmd{}, "reports")
	subcommands.Register(&summaryCmd{}, "reports")

	subcommands.Register(&resetCmd{}, "session")
	subcommands.Register(&relayCmd{}, "streaming")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
