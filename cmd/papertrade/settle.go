package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	"papertrade/internal/quote"
	"papertrade/types"
)

type settleCmd struct{}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "execute pending limit orders whose price condition is met" }
func (*settleCmd) Usage() string {
	return `papertrade settle

  Sweeps every pending limit order against a fresh quote. A buy executes once
  the live price is at or below its limit, a sell once it is at or above; the
  fill happens at the live price. Orders that cannot be funded or quoted stay
  pending.
`
}

func (*settleCmd) SetFlags(*flag.FlagSet) {}

func (*settleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var bar *progressbar.ProgressBar
	a, err := openAppSource(ctx, func(src quote.Source) quote.Source {
		return &tickingSource{src: src, bar: &bar}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	pending := a.session.Pending()
	if len(pending) == 0 {
		fmt.Println("No pending limit orders.")
		return subcommands.ExitSuccess
	}
	bar = initProgressBar(len(pending))

	report, err := a.session.Settle(ctx)
	_ = bar.Finish()
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if len(report.Executed) == 0 {
		fmt.Println("No pending limit orders met their conditions at current prices.")
	}
	for _, exec := range report.Executed {
		verb := "BUY"
		if exec.Order.Side == types.SideTypeSell {
			verb = "SELL"
		}
		fmt.Printf("Executed %s %d of %s at %s (limit %s).\n",
			verb, exec.Order.Quantity, types.DisplayCode(exec.Order.Symbol),
			formatMoney(exec.FillPrice), exec.Order.LimitPrice.StringFixed(2))
	}
	fmt.Printf("Still pending: %d. Current balance: %s\n", len(report.Pending), formatMoney(a.session.Balance()))
	return subcommands.ExitSuccess
}

// tickingSource advances the sweep progress bar once per quote lookup. The
// bar pointer is indirect because the bar is sized only after the session
// has loaded the pending book.
type tickingSource struct {
	src quote.Source
	bar **progressbar.ProgressBar
}

func (t *tickingSource) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	if *t.bar != nil {
		defer (*t.bar).Add(1)
	}
	return t.src.Quote(ctx, symbol)
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Settling pending orders..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
