// Package cmd implements the CLI commands of the trading ledger.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/valutatrade/hub"
	"github.com/valutatrade/hub/marketdata"
)

// App wires the services once at startup and hands them to every command.
// There are no package globals: the session, the store and the settings
// are owned here and passed by reference.
type App struct {
	Settings hub.Settings
	Registry *hub.Registry
	Store    *hub.Store
	Accounts *hub.Accounts
	Resolver *hub.Resolver
	Trader   *hub.Trader
	Updater  *marketdata.Updater
	Session  *hub.Session

	Out io.Writer
	Err io.Writer
}

// NewApp builds the application from its settings.
func NewApp(settings hub.Settings, log zerolog.Logger) (*App, error) {
	store, err := hub.NewStore(settings.DataDir)
	if err != nil {
		return nil, err
	}
	registry := hub.DefaultRegistry()
	sources := []hub.RateSource{
		marketdata.NewCoinGecko(settings.HTTPTimeout),
		marketdata.NewExchangeRateAPI(settings.ExchangeRateAPIKey, settings.HTTPTimeout),
	}
	accounts := hub.NewAccounts(store, log)
	resolver := hub.NewResolver(registry, store, settings.RatesTTL, log, sources...)

	return &App{
		Settings: settings,
		Registry: registry,
		Store:    store,
		Accounts: accounts,
		Resolver: resolver,
		Trader:   hub.NewTrader(registry, accounts, resolver, log),
		Updater:  marketdata.NewUpdater(store, log, sources...),
		Session:  &hub.Session{},
		Out:      os.Stdout,
		Err:      os.Stderr,
	}, nil
}

// Register registers every command on the commander.
func (a *App) Register(c *subcommands.Commander) {
	c.Register(&registerCmd{app: a}, "account")
	c.Register(&loginCmd{app: a}, "account")
	c.Register(&passwordCmd{app: a}, "account")

	c.Register(&portfolioCmd{app: a}, "trading")
	c.Register(&buyCmd{app: a}, "trading")
	c.Register(&sellCmd{app: a}, "trading")

	c.Register(&rateCmd{app: a}, "rates")
	c.Register(&ratesCmd{app: a}, "rates")
	c.Register(&updateCmd{app: a}, "rates")
	c.Register(&currenciesCmd{app: a}, "rates")
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails.
func (a *App) printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprintln(a.Out, md)
		return
	}
	fmt.Fprint(a.Out, out)
}

// fail converts any domain error into a single human-readable line.
// No stack trace ever reaches the interactive user.
func (a *App) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// user returns the logged-in user or reports the missing login.
func (a *App) user() (*hub.User, error) {
	user, err := a.Session.Require()
	if err != nil {
		return nil, fmt.Errorf("log in first: login -username <name> -password <password>")
	}
	return user, nil
}
