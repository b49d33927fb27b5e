package cmd

import (
	"fmt"
	"net/http"

	"eduhub/bluesky"
	"eduhub/catalog"
	"eduhub/config"
	"eduhub/db"
	"eduhub/feeds"
	"eduhub/models"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config/eduhub.toml",
		Usage:   "Path to eduhub configuration file",
		EnvVars: []string{"EDUHUB_CONFIG"},
	}
}

func catalogFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "catalog",
		Usage:   "Path to a TOML catalog, overrides the catalog in the config file",
		EnvVars: []string{"EDUHUB_CATALOG"},
	}
}

// buildProvider turns one configured provider into a retrying feeds.Provider
func buildProvider(p config.TomlProvider) feeds.Provider {
	client := &http.Client{Timeout: p.Timeout()}
	platform := models.Platform(p.Platform)

	var provider feeds.Provider
	switch platform {
	case models.PlatformBluesky:
		provider = bluesky.NewProvider(bluesky.NewClient(p.Host, client), p.Actor)
	default:
		opts := []feeds.HTTPProviderOption{feeds.WithHTTPClient(client)}
		for key, value := range p.Headers {
			opts = append(opts, feeds.WithHeader(key, value))
		}
		provider = feeds.NewHTTPProvider(platform, p.Endpoint, opts...)
	}

	retries := p.RetryCount()
	if retries < 0 {
		retries = 0
	}
	policy := feeds.DefaultRetryPolicy()
	policy.MaxRetries = uint64(retries)
	policy.InitialInterval = p.RetryDelay()

	return feeds.WithRetry(provider, policy)
}

func buildAggregator(cfg *config.TomlConfig) *feeds.Aggregator {
	providers := make([]feeds.Provider, 0, len(cfg.Social.Providers))
	for _, p := range cfg.Social.Providers {
		providers = append(providers, buildProvider(p))
	}

	if len(providers) == 0 {
		log.Warn("No social providers configured, the feed will be empty")
	}

	return feeds.NewAggregator(providers, feeds.WithLanguageTagger(feeds.NewLanguageTagger(cfg.Social.Languages)))
}

// loadCatalog reads the catalog from the --catalog flag, the config file or
// the SQLite database, in that order.
func loadCatalog(ctx *cli.Context, cfg *config.TomlConfig) (*catalog.Catalog, error) {
	path := ctx.String("catalog")
	if path == "" && cfg != nil {
		path = cfg.Catalog
	}
	if path != "" {
		return catalog.LoadFile(path)
	}

	log.WithFields(log.Fields{
		"database": ctx.String("database"),
	}).Info("Reading catalog from database")

	store, err := db.NewDB(ctx.String("database"))
	if err != nil {
		return nil, err
	}
	defer store.Close()

	c, err := store.LoadCatalog(ctx.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from database: %w", err)
	}
	return c, nil
}
