package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/valutatrade/hub"
	"github.com/valutatrade/hub/renderer"
)

type portfolioCmd struct {
	app  *App
	base string
}

func (*portfolioCmd) Name() string     { return "show-portfolio" }
func (*portfolioCmd) Synopsis() string { return "display the valued portfolio of the logged-in user" }
func (*portfolioCmd) Usage() string {
	return `show-portfolio [-base <code>]

  Lists every wallet with its balance and its value in the base currency.
  Wallets without a resolvable rate show N/A and are excluded from the
  total instead of failing the report.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "Valuation currency (defaults to the configured base).")
}

func (c *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := c.app.user()
	if err != nil {
		return c.app.fail(err)
	}
	base := c.base
	if base == "" {
		base = c.app.Settings.BaseCurrency
	}
	baseCur, err := c.app.Registry.Get(base)
	if err != nil {
		return c.app.fail(err)
	}

	portfolio, err := c.app.Accounts.PortfolioOf(user.ID)
	if err != nil {
		return c.app.fail(err)
	}
	values, total := portfolio.Valuations(baseCur.Code, hub.ResolveFor(c.app.Resolver))
	c.app.printMarkdown(renderer.Portfolio(user.Username, baseCur.Code, values, total))
	return subcommands.ExitSuccess
}
