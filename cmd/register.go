package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type registerCmd struct {
	app      *App
	username string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a new user account" }
func (*registerCmd) Usage() string {
	return `register -username <name> -password <password>

  Creates a new user with an empty portfolio. The password must be at
  least 4 characters.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "Unique account name.")
	f.StringVar(&c.password, "password", "", "Account password (4 characters minimum).")
}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	username := strings.TrimSpace(c.username)
	if username == "" {
		return c.app.fail(fmt.Errorf("username cannot be empty"))
	}
	user, err := c.app.Accounts.Register(username, c.password)
	if err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintf(c.app.Out, "User %q registered (id=%d). Log in: login -username %s -password ****\n",
		username, user.ID, username)
	return subcommands.ExitSuccess
}
