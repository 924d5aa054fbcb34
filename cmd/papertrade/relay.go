package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"papertrade/internal/quote"
	"papertrade/internal/relay"
	"papertrade/params"
)

type relayCmd struct {
	addr string
}

func (*relayCmd) Name() string     { return "relay" }
func (*relayCmd) Synopsis() string { return "serve the streaming last-price websocket endpoint" }
func (*relayCmd) Usage() string {
	return `papertrade relay [-addr <host:port>]

  Serves /ws/ltp: the client sends a symbol once, the server pushes the last
  traded price as text on a fixed interval until error or disconnect.
`
}

func (c *relayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides RELAY_ADDR")
}

func (c *relayCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := params.LoadFromEnv(*envFile)
	if c.addr != "" {
		cfg.Relay.Addr = c.addr
	}

	log, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := quote.NewYahooSource(cfg.Quotes.Endpoint, cfg.Quotes.Timeout)
	server := relay.NewServer(src, cfg.Relay.PushInterval, log)
	if err := server.Start(ctx, cfg.Relay.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
