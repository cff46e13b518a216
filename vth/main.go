// Command vth is the ValutaTrade Hub CLI. Without arguments it starts an
// interactive session; with arguments it runs a single command and exits.
package main

import (
	"context"
	"flag"
	"os"
	"path"
	"time"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/valutatrade/hub"
	"github.com/valutatrade/hub/cmd"
)

func main() {
	// a missing .env is fine, the environment still applies
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(logLevel())

	app, err := cmd.NewApp(hub.SettingsFromEnv(), log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
		app.Register(commander)
		commander.Register(commander.HelpCommand(), "")
		commander.Register(commander.CommandsCommand(), "")
		flag.Parse()
		os.Exit(int(commander.Execute(context.Background())))
	}

	if err := app.RunSession(context.Background(), os.Stdin); err != nil {
		log.Error().Err(err).Msg("session failed")
		os.Exit(1)
	}
}

func logLevel() zerolog.Level {
	if lvl, err := zerolog.ParseLevel(os.Getenv("VTH_LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}
