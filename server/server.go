package server

import (
	"strconv"
	"strings"
	"time"

	"eduhub/feeds"
	"eduhub/models"
	"eduhub/search"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const maxFeedLimit = 50

type ServerConfig struct {
	// Search service over the loaded catalog
	Search *search.Service

	// Aggregator for the social feed
	Feed *feeds.Aggregator

	// Posts per provider when the request does not ask for a limit
	DefaultLimit int

	// Comma separated list of allowed CORS origins
	CorsOrigins string

	// How long aggregated feeds are cached, zero disables caching
	CacheExpiration time.Duration
}

// Returns a fiber.App instance serving the search and social feed API
func Server(config *ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "eduhub",
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(compress.New())

	if config.CorsOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: config.CorsOrigins,
			AllowHeaders: "Cache-Control",
		}))
	}

	// Provider feeds change slowly, cache the aggregated result
	if config.CacheExpiration > 0 {
		app.Use(cache.New(cache.Config{
			Expiration: config.CacheExpiration,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() != fiber.MethodGet || c.Path() != "/api/social"
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.Request().URI().String()
			},
		}))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/api/search", func(c *fiber.Ctx) error {
		filter, err := search.ParseEntityFilter(c.Query("type", string(search.FilterAll)))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid type")
		}

		// An empty query means no search is in progress
		query := c.Query("q")
		if query == "" {
			return c.JSON(models.SearchResponse{Results: []models.SearchResult{}})
		}

		results, err := config.Search.Search(c.UserContext(), query, filter)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Warn("Search abandoned")
			return c.Status(fiber.StatusServiceUnavailable).SendString("Search abandoned")
		}

		return c.JSON(models.SearchResponse{Results: results})
	})

	app.Get("/api/social", func(c *fiber.Ctx) error {
		limit := parseLimit(c.Query("limit"), config.DefaultLimit)
		platforms := parsePlatforms(c.Query("providers"))
		if len(platforms) == 0 {
			platforms = config.Feed.Platforms()
		}

		posts := config.Feed.FetchAll(c.UserContext(), platforms, limit)
		return c.JSON(models.FeedResponse{Posts: posts})
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	})

	return app
}

func parseLimit(raw string, fallback int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		limit = fallback
	}
	return lo.Clamp(limit, 1, maxFeedLimit)
}

func parsePlatforms(raw string) []models.Platform {
	parts := lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.ToLower(strings.TrimSpace(s))
	}))
	return lo.Uniq(lo.Map(parts, func(s string, _ int) models.Platform {
		return models.Platform(s)
	}))
}
