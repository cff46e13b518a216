package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/valutatrade/hub/renderer"
)

type sellCmd struct {
	app      *App
	currency string
	amount   string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell an amount of a currency" }
func (*sellCmd) Usage() string {
	return `sell -currency <code> -amount <n>

  Withdraws the amount from the wallet for that currency. The wallet must
  exist (buy first) and hold a sufficient balance.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Currency code to sell.")
	f.StringVar(&c.amount, "amount", "", "Amount to sell (positive).")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := c.app.user()
	if err != nil {
		return c.app.fail(err)
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.app.fail(err)
	}
	result, err := c.app.Trader.Sell(user, c.currency, amount)
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printMarkdown(renderer.Trade("Sold", result))
	return subcommands.ExitSuccess
}
