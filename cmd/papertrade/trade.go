package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

type buyCmd struct {
	symbol string
	qty    int64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares at the current market price" }
func (*buyCmd) Usage() string {
	return `papertrade buy -s <symbol> -q <quantity>

  Executes a market buy immediately at the last traded price.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "BSE stock name or code, e.g. RELIANCE")
	f.Int64Var(&c.qty, "q", 0, "number of shares")
}

func (c *buyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runMarketOrder(ctx, c.symbol, types.SideTypeBuy, c.qty)
}

type sellCmd struct {
	symbol string
	qty    int64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares at the current market price" }
func (*sellCmd) Usage() string {
	return `papertrade sell -s <symbol> -q <quantity>

  Executes a market sell immediately at the last traded price.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "BSE stock name or code, e.g. RELIANCE")
	f.Int64Var(&c.qty, "q", 0, "number of shares")
}

func (c *sellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runMarketOrder(ctx, c.symbol, types.SideTypeSell, c.qty)
}

func runMarketOrder(ctx context.Context, symbol string, side types.Side, qty int64) subcommands.ExitStatus {
	if symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -s symbol is required")
		return subcommands.ExitUsageError
	}
	sym := types.NormalizeSymbol(symbol)

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	placement, err := a.session.PlaceOrder(ctx, sym, side, qty, types.TypeMarket, decimal.Zero)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	verb := "Bought"
	if side == types.SideTypeSell {
		verb = "Sold"
	}
	fmt.Printf("%s %d shares of %s at %s.\n", verb, qty, types.DisplayCode(sym), formatMoney(placement.FillPrice))
	fmt.Printf("Current balance: %s\n", formatMoney(a.session.Balance()))
	return subcommands.ExitSuccess
}

type limitCmd struct {
	symbol string
	side   string
	qty    int64
	price  string
}

func (*limitCmd) Name() string     { return "limit" }
func (*limitCmd) Synopsis() string { return "place a limit order in the pending book" }
func (*limitCmd) Usage() string {
	return `papertrade limit -s <symbol> -side <buy|sell> -q <quantity> -p <price>

  Places a limit order. The order stays pending until a settlement sweep
  (papertrade settle) observes a price at or past the limit.
`
}

func (c *limitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "BSE stock name or code, e.g. RELIANCE")
	f.StringVar(&c.side, "side", "buy", "order side: buy or sell")
	f.Int64Var(&c.qty, "q", 0, "number of shares")
	f.StringVar(&c.price, "p", "", "limit price")
}

func (c *limitCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "Error: -s symbol and -p price are required")
		return subcommands.ExitUsageError
	}
	price, err := decimal.NewFromString(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}
	var side types.Side
	switch c.side {
	case "buy":
		side = types.SideTypeBuy
	case "sell":
		side = types.SideTypeSell
	default:
		fmt.Fprintln(os.Stderr, "Error: -side must be buy or sell")
		return subcommands.ExitUsageError
	}
	sym := types.NormalizeSymbol(c.symbol)

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	placement, err := a.session.PlaceOrder(ctx, sym, side, c.qty, types.TypeLimit, price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Limit %s order #%d placed for %d shares of %s at %s. Run 'papertrade settle' to execute once the price condition is met.\n",
		c.side, placement.Order.ID, c.qty, types.DisplayCode(sym), formatMoney(price))
	return subcommands.ExitSuccess
}

type cancelCmd struct {
	id int64
}

func (*cancelCmd) Name() string     { return "cancel" }
func (*cancelCmd) Synopsis() string { return "cancel a pending limit order" }
func (*cancelCmd) Usage() string {
	return `papertrade cancel -id <order-id>

  Removes a pending limit order from the book.
`
}

func (c *cancelCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "pending order ID (see 'papertrade pending')")
}

func (c *cancelCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	order, err := a.session.Cancel(ctx, c.id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Cancelled order #%d: %s %d x %s at %s.\n",
		order.ID, order.Side, order.Quantity, types.DisplayCode(order.Symbol), formatMoney(order.LimitPrice))
	return subcommands.ExitSuccess
}
