package search

import (
	"context"
	"time"

	"eduhub/catalog"
	"eduhub/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var (
	searchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduhub_search_queries_total",
		Help: "The total number of search queries by entity type filter",
	}, []string{"filter"})

	searchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eduhub_search_results",
		Help:    "Number of results returned per search query",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})
)

// Service runs searches against a loaded catalog. Delay is a presentation
// concern: it is waited out before the engine runs, and a cancelled context
// ends the wait so a superseded search can be dropped.
type Service struct {
	Catalog *catalog.Catalog
	Delay   time.Duration
}

func NewService(c *catalog.Catalog, delay time.Duration) *Service {
	return &Service{Catalog: c, Delay: delay}
}

func (s *Service) Search(ctx context.Context, query string, filter EntityFilter) ([]models.SearchResult, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	results := Search(query, filter, s.Catalog.Collections()...)

	searchQueries.WithLabelValues(string(filter)).Inc()
	searchResults.Observe(float64(len(results)))

	log.WithFields(log.Fields{
		"query":   query,
		"filter":  filter,
		"results": len(results),
	}).Debug("Search")

	return results, nil
}
