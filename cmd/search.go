package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"eduhub/config"
	"eduhub/models"
	"eduhub/search"

	"github.com/cqroot/prompt"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var filterChoices = append(
	[]string{string(search.FilterAll)},
	lo.Map(models.EntityTypes, func(t models.EntityType, _ int) string { return string(t) })...,
)

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog from the command line",
		ArgsUsage: "QUERY",
		Description: `Searches events, courses and projects for QUERY, ignoring case.

Returns each result as a JSON object on a single line. Use a tool like jq to
process the output.

Prints all other log messages to stderr.`,
		Flags: []cli.Flag{
			configFlag(),
			catalogFlag(),
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Restrict results to one entity type: " + strings.Join(filterChoices, ", "),
				Value:   string(search.FilterAll),
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Prompt for the query and entity type",
			},
			databaseFlag(),
		},
		Action: func(ctx *cli.Context) error {
			// Disable logging to stdout
			log.SetOutput(os.Stderr)

			query := strings.Join(ctx.Args().Slice(), " ")
			rawFilter := ctx.String("type")

			if ctx.Bool("interactive") {
				var err error
				query, err = prompt.New().Ask("Search:").Input(query)
				if err != nil {
					return err
				}
				rawFilter, err = prompt.New().Ask("Type:").Choose(filterChoices)
				if err != nil {
					return err
				}
			}

			filter, err := search.ParseEntityFilter(rawFilter)
			if err != nil {
				return err
			}

			var cfg *config.TomlConfig
			if !ctx.IsSet("catalog") {
				cfg, err = config.LoadConfig(ctx.String("config"))
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			}

			c, err := loadCatalog(ctx, cfg)
			if err != nil {
				return err
			}

			searchCtx, stop := shutdownContext(ctx.Context)
			defer stop()

			results, err := search.NewService(c, 0).Search(searchCtx, query, filter)
			if err != nil {
				return err
			}

			lo.ForEach(results, func(r models.SearchResult, _ int) {
				printStdout(r)
			})
			return nil
		},
	}
}

func printStdout(v any) {
	// Print as single JSON string on a single line
	out, err := json.Marshal(v)
	if err == nil {
		fmt.Println(string(out))
	}
}
