package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduhub/config"
	"eduhub/search"
	"eduhub/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search and social feed API",
		Description: `Starts the eduhub HTTP server.

Loads the catalog from the configured TOML file or SQLite database and serves
search results on /api/search. The merged social feed of all configured
providers is served on /api/social.`,
		Flags: []cli.Flag{
			configFlag(),
			catalogFlag(),
			&cli.StringFlag{
				Name:    "hostname",
				Aliases: []string{"n"},
				Usage:   "The hostname to listen on",
				EnvVars: []string{"EDUHUB_HOSTNAME"},
				Value:   "",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on, overrides the config file",
				EnvVars: []string{"EDUHUB_PORT"},
			},
			databaseFlag(),
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			c, err := loadCatalog(ctx, cfg)
			if err != nil {
				return err
			}

			port := cfg.Server.Port
			if ctx.IsSet("port") {
				port = ctx.Int("port")
			}

			app := server.Server(&server.ServerConfig{
				Search:          search.NewService(c, cfg.Server.SearchDelay()),
				Feed:            buildAggregator(cfg),
				DefaultLimit:    cfg.Social.DefaultLimit,
				CorsOrigins:     cfg.Server.CorsOrigins,
				CacheExpiration: time.Duration(cfg.Server.CacheSeconds) * time.Second,
			})

			// Graceful shutdown
			signalCtx, stop := shutdownContext(ctx.Context)
			defer stop()

			shutdown := make(chan struct{})
			go func() {
				defer close(shutdown)
				<-signalCtx.Done()
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
					log.WithError(err).Error("Server shutdown failed")
				}
			}()

			log.WithFields(log.Fields{
				"port":      port,
				"entities":  c.Len(),
				"providers": len(cfg.Social.Providers),
			}).Info("Starting server...")

			if err := app.Listen(fmt.Sprintf("%s:%d", ctx.String("hostname"), port)); err != nil {
				return err
			}

			// Listen returns once shutdown starts, wait for it to finish
			<-shutdown
			log.Info("Done!")
			return nil
		},
	}
}

// shutdownContext is the context CLI commands fetch and search with
func shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
