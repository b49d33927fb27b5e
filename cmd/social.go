package cmd

import (
	"fmt"
	"os"
	"strings"

	"eduhub/config"
	"eduhub/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func socialCmd() *cli.Command {
	return &cli.Command{
		Name:  "social",
		Usage: "Print the merged social feed to the command line",
		Description: `Fetches the latest posts of every configured provider and prints
the merged feed, newest first.

Returns each post as a JSON object on a single line. Use a tool like jq to
process the output. A failing provider is logged and skipped.

Prints all other log messages to stderr.`,
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Posts to fetch per provider, defaults to the config file",
			},
			&cli.StringSliceFlag{
				Name:    "providers",
				Usage:   "Only fetch these platforms, e.g. instagram,bluesky",
				EnvVars: []string{"EDUHUB_PROVIDERS"},
			},
		},
		Action: func(ctx *cli.Context) error {
			// Disable logging to stdout
			log.SetOutput(os.Stderr)

			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			limit := cfg.Social.DefaultLimit
			if ctx.IsSet("limit") {
				limit = ctx.Int("limit")
			}
			if limit < 1 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			aggregator := buildAggregator(cfg)
			platforms := lo.Map(ctx.StringSlice("providers"), func(s string, _ int) models.Platform {
				return models.Platform(strings.ToLower(strings.TrimSpace(s)))
			})
			if len(platforms) == 0 {
				platforms = aggregator.Platforms()
			}

			fetchCtx, stop := shutdownContext(ctx.Context)
			defer stop()

			for _, post := range aggregator.FetchAll(fetchCtx, platforms, limit) {
				printStdout(post)
			}
			return nil
		},
	}
}
