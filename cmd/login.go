package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type loginCmd struct {
	app      *App
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and start acting as a user" }
func (*loginCmd) Usage() string {
	return `login -username <name> -password <password>

  Verifies the credentials and binds the session to this user. All trading
  commands act as the logged-in user.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "Account name.")
	f.StringVar(&c.password, "password", "", "Account password.")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := c.app.Accounts.Login(c.app.Session, c.username, c.password); err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintf(c.app.Out, "Logged in as %q\n", c.username)
	return subcommands.ExitSuccess
}
