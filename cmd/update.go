package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type updateCmd struct {
	app    *App
	source string
}

func (*updateCmd) Name() string     { return "update-rates" }
func (*updateCmd) Synopsis() string { return "refresh the rate cache from the external providers" }
func (*updateCmd) Usage() string {
	return `update-rates [-source <name>]

  Fetches fresh rates and rewrites the cache. A provider failure is
  reported but does not discard the pairs the other providers returned.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "all", "Provider to query (all, coingecko, exchangerate).")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := c.app.Updater.Run(c.source)
	if err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintf(c.app.Out, "Updated %d pairs.\n", result.Updated)
	for _, msg := range result.Errors {
		fmt.Fprintf(c.app.Err, "Warning: %s\n", msg)
	}
	return subcommands.ExitSuccess
}
