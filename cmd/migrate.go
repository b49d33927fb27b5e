package cmd

import (
	"fmt"

	"eduhub/catalog"
	"eduhub/db"

	"github.com/urfave/cli/v2"
)

func databaseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "database",
		Aliases: []string{"d"},
		Value:   "eduhub.db",
		Usage:   "SQLite database file location",
		EnvVars: []string{"EDUHUB_DATABASE"},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run database migrations",
		Description: `Runs database migrations on the configured database. Will create the database if it does not exist.`,
		Flags:       []cli.Flag{databaseFlag()},
		Action: func(ctx *cli.Context) error {
			return db.Migrate(ctx.String("database"))
		},
	}
}

func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:        "rollback",
		Usage:       "Rollback database migration",
		Description: `Rolls back the last database migration`,
		Flags:       []cli.Flag{databaseFlag()},
		Action: func(ctx *cli.Context) error {
			return db.Rollback(ctx.String("database"))
		},
	}
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a TOML catalog into the database",
		ArgsUsage: "CATALOG",
		Description: `Replaces the events, courses and projects stored in the database with
the contents of a TOML catalog file. Runs migrations first.`,
		Flags: []cli.Flag{databaseFlag()},
		Action: func(ctx *cli.Context) error {
			path := ctx.Args().First()
			if path == "" {
				return fmt.Errorf("please specify a catalog file")
			}

			c, err := catalog.LoadFile(path)
			if err != nil {
				return err
			}

			database := ctx.String("database")
			if err := db.Migrate(database); err != nil {
				return err
			}

			store, err := db.NewDB(database)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.ImportCatalog(ctx.Context, c)
		},
	}
}
