package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/valutatrade/hub"
	"github.com/valutatrade/hub/renderer"
)

type ratesCmd struct {
	app      *App
	currency string
	top      int
}

func (*ratesCmd) Name() string     { return "show-rates" }
func (*ratesCmd) Synopsis() string { return "list the cached exchange rates" }
func (*ratesCmd) Usage() string {
	return `show-rates [-currency <code>] [-top <n>]

  Lists the pairs in the local rate cache, sorted by rate, without
  touching the external providers.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Only pairs involving this currency.")
	f.IntVar(&c.top, "top", 0, "Only the n highest rates (0 means all).")
}

func (c *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter := ""
	if c.currency != "" {
		code, err := hub.NormalizeCode(c.currency)
		if err != nil {
			return c.app.fail(err)
		}
		filter = code
	}
	snapshot, err := c.app.Store.LoadRateCache()
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printMarkdown(renderer.Rates(snapshot, filter, c.top))
	return subcommands.ExitSuccess
}
