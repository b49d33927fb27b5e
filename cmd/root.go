package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "eduhub",
		Usage: "Search the campus catalog and follow its social feeds",
		Description: `Eduhub serves a federated search over events, courses and
		projects together with a social feed merged from the configured
		Instagram, LinkedIn and Bluesky accounts.

		The catalog is read from a TOML file or from a SQLite database. Providers
		are fetched concurrently and a failing provider never breaks the feed.

		Flags can generally be set via environment variables, e.g.:

		--config => EDUHUB_CONFIG=config/eduhub.toml
		--port => EDUHUB_PORT=8080
		`,
		Commands: []*cli.Command{
			serveCmd(),
			searchCmd(),
			socialCmd(),
			importCmd(),
			migrateCmd(),
			rollbackCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
