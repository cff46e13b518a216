package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/valutatrade/hub"
	"github.com/valutatrade/hub/renderer"
)

type buyCmd struct {
	app      *App
	currency string
	amount   string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy an amount of a currency" }
func (*buyCmd) Usage() string {
	return `buy -currency <code> -amount <n>

  Deposits the amount into the wallet for that currency, creating the
  wallet on first purchase. The USD value is reported when a rate is
  resolvable; an unavailable rate never blocks the purchase.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Currency code to buy.")
	f.StringVar(&c.amount, "amount", "", "Amount to buy (positive).")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := c.app.user()
	if err != nil {
		return c.app.fail(err)
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.app.fail(err)
	}
	result, err := c.app.Trader.Buy(user, c.currency, amount)
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printMarkdown(renderer.Trade("Bought", result))
	return subcommands.ExitSuccess
}

// parseAmount parses a positive decimal command argument.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, hub.Validationf("'amount' must be a positive number")
	}
	return amount, nil
}
