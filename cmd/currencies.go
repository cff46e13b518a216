package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/valutatrade/hub/renderer"
)

type currenciesCmd struct {
	app *App
}

func (*currenciesCmd) Name() string     { return "currencies" }
func (*currenciesCmd) Synopsis() string { return "list the supported currencies" }
func (*currenciesCmd) Usage() string {
	return `currencies

  Lists every currency the ledger knows about, fiat and crypto.
`
}

func (*currenciesCmd) SetFlags(*flag.FlagSet) {}

func (c *currenciesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.app.printMarkdown(renderer.Currencies(c.app.Registry.All()))
	return subcommands.ExitSuccess
}
