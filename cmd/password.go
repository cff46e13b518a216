package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type passwordCmd struct {
	app         *App
	newPassword string
}

func (*passwordCmd) Name() string     { return "change-password" }
func (*passwordCmd) Synopsis() string { return "change the password of the logged-in user" }
func (*passwordCmd) Usage() string {
	return `change-password -new <password>

  Replaces the password of the logged-in user. The salt is regenerated
  together with the hash.
`
}

func (c *passwordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.newPassword, "new", "", "New password (4 characters minimum).")
}

func (c *passwordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	user, err := c.app.user()
	if err != nil {
		return c.app.fail(err)
	}
	if err := c.app.Accounts.ChangePassword(user, c.newPassword); err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintln(c.app.Out, "Password changed.")
	return subcommands.ExitSuccess
}
