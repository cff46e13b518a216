package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"
	"github.com/valutatrade/hub"
)

// RunSession reads commands from r until EOF or an exit command. Each line
// runs through a fresh commander so flag values never leak between
// commands, while the session itself (the logged-in user) survives the
// whole loop.
func (a *App) RunSession(ctx context.Context, r io.Reader) error {
	fmt.Fprintln(a.Out, "Welcome. Type 'help' for commands, 'exit' to leave.")
	scanner := bufio.NewScanner(r)
	for {
		a.prompt()
		if !scanner.Scan() {
			break
		}
		args, err := splitLine(scanner.Text())
		if err != nil {
			fmt.Fprintf(a.Err, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			fmt.Fprintln(a.Out, "Bye.")
			return nil
		case "logout":
			a.Session.Clear()
			fmt.Fprintln(a.Out, "Logged out.")
			continue
		}
		a.runLine(ctx, args)
	}
	return scanner.Err()
}

func (a *App) prompt() {
	if user := a.Session.User(); user != nil {
		fmt.Fprintf(a.Out, "%s> ", user.Username)
		return
	}
	fmt.Fprint(a.Out, "> ")
}

// runLine dispatches one already-split command line.
func (a *App) runLine(ctx context.Context, args []string) subcommands.ExitStatus {
	fs := flag.NewFlagSet("vth", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	commander := subcommands.NewCommander(fs, "vth")
	commander.Output = a.Out
	commander.Error = a.Err
	a.Register(commander)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	if err := fs.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}
	return commander.Execute(ctx)
}

// splitLine splits a command line into arguments, honoring single and
// double quotes so usernames and passwords may contain spaces.
func splitLine(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inArg := false
	quote := rune(0)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, hub.Validationf("unclosed quote in command")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
