package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/valutatrade/hub"
	"github.com/valutatrade/hub/renderer"
)

type rateCmd struct {
	app  *App
	from string
	to   string
}

func (*rateCmd) Name() string     { return "get-rate" }
func (*rateCmd) Synopsis() string { return "resolve the exchange rate for a currency pair" }
func (*rateCmd) Usage() string {
	return `get-rate -from <code> -to <code>

  Resolves the rate through the cache (refreshing stale entries), the
  external providers, and the static fallback table, in that order.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source currency code.")
	f.StringVar(&c.to, "to", "", "Target currency code.")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := hub.NormalizeCode(c.from)
	if err != nil {
		return c.app.fail(err)
	}
	to, err := hub.NormalizeCode(c.to)
	if err != nil {
		return c.app.fail(err)
	}
	quote, err := c.app.Resolver.Resolve(from, to, true)
	if err != nil {
		return c.app.fail(err)
	}

	// the reverse rate is informative only, silence its failures
	var reverse *hub.Quote
	if from != to {
		if rq, err := c.app.Resolver.Resolve(to, from, true); err == nil {
			reverse = &rq
		}
	}
	fmt.Fprint(c.app.Out, renderer.Quote(from, to, quote, reverse))
	return subcommands.ExitSuccess
}
