package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduhub_provider_fetch_total",
		Help: "The total number of provider fetches by platform and outcome",
	}, []string{"platform", "outcome"})

	providerFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eduhub_provider_fetch_duration_seconds",
		Help:    "Duration of provider fetches",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms up to ~5s
	}, []string{"platform"})

	providerRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduhub_provider_retries_total",
		Help: "The total number of retried provider fetches",
	}, []string{"platform"})
)
