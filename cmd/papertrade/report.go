package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"papertrade/internal/quote"
	"papertrade/types"
)

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show holdings, market value and unrealized P/L" }
func (*portfolioCmd) Usage() string {
	return `papertrade portfolio

  Prices every holding with a live quote and prints the valuation. A symbol
  whose quote is unavailable is shown with price 0.
`
}

func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (*portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	fmt.Printf("Current Balance: %s\n\n", formatMoney(a.session.Balance()))

	reports := a.session.Valuation(ctx)
	if len(reports) == 0 {
		fmt.Println("Your portfolio is currently empty.")
		return subcommands.ExitSuccess
	}

	fmt.Printf("%-12s %8s %12s %12s %14s %14s\n", "Scrip", "Qty", "Avg Cost", "Price", "Value", "P/L")
	for _, r := range reports {
		fmt.Printf("%-12s %8d %12s %12s %14s %14s\n",
			types.DisplayCode(r.Symbol),
			r.Quantity,
			r.AvgCost.StringFixed(2),
			r.CurrentPrice.StringFixed(2),
			formatMoney(r.MarketValue),
			formatMoney(r.UnrealizedPL),
		)
	}
	return subcommands.ExitSuccess
}

type pendingCmd struct{}

func (*pendingCmd) Name() string     { return "pending" }
func (*pendingCmd) Synopsis() string { return "list pending limit orders" }
func (*pendingCmd) Usage() string {
	return `papertrade pending

  Lists the limit orders waiting for their price condition, in placement order.
`
}

func (*pendingCmd) SetFlags(*flag.FlagSet) {}

func (*pendingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	orders := a.session.Pending()
	if len(orders) == 0 {
		fmt.Println("No pending limit orders.")
		return subcommands.ExitSuccess
	}

	// Best-effort display names; a failed quote falls back to the scrip code.
	names := make(map[string]string)
	symbols := lo.Uniq(lo.Map(orders, func(o types.PendingOrder, _ int) string { return o.Symbol }))
	for _, sym := range symbols {
		names[sym] = types.DisplayCode(sym)
		if q, err := a.quotes.Quote(ctx, sym); err == nil && q.Name != "" {
			names[sym] = q.Name
		}
	}

	fmt.Printf("%4s %-24s %-10s %-5s %8s %12s %14s\n", "ID", "Stock", "Scrip", "Side", "Qty", "Limit", "Limit Value")
	for _, o := range orders {
		fmt.Printf("%4d %-24s %-10s %-5s %8d %12s %14s\n",
			o.ID,
			names[o.Symbol],
			types.DisplayCode(o.Symbol),
			o.Side,
			o.Quantity,
			o.LimitPrice.StringFixed(2),
			formatMoney(o.LimitValue()),
		)
	}
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	symbol string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the BSE market summary and an optional quote overview" }
func (*summaryCmd) Usage() string {
	return `papertrade summary [-s <symbol>]

  Prints the index summary (Sensex, Sensex 50, BSE Bankex). With -s, also
  prints the price overview for one stock.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "BSE stock name or code for a detailed quote")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	fmt.Println("BSE Market Summary")
	for _, s := range quote.MarketSummary(ctx, a.quotes, quote.DefaultIndices) {
		if !s.Available {
			fmt.Printf("  %-12s unavailable\n", s.Name)
			continue
		}
		fmt.Printf("  %-12s %12s  %s (%s%%)\n", s.Name, s.Price.StringFixed(2), signed(s.Change), signed(s.ChangePct))
	}

	if c.symbol == "" {
		return subcommands.ExitSuccess
	}

	sym := types.NormalizeSymbol(c.symbol)
	q, err := a.quotes.Quote(ctx, sym)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not fetch live price for %s: %v\n", sym, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("\n%s (%s)\n", q.Name, types.DisplayCode(sym))
	fmt.Printf("  Last Traded Price: %s\n", formatMoney(q.LastPrice))
	fmt.Printf("  Previous Close:    %s\n", formatMoney(q.PreviousClose))
	fmt.Printf("  Day High / Low:    %s / %s\n", q.DayHigh.StringFixed(2), q.DayLow.StringFixed(2))
	fmt.Printf("  52 Week High / Low: %s / %s\n", q.Week52High.StringFixed(2), q.Week52Low.StringFixed(2))
	return subcommands.ExitSuccess
}

func signed(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.Sign() >= 0 {
		return "+" + s
	}
	return s
}
