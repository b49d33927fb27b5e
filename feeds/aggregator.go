package feeds

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eduhub/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Aggregator fans a fetch out to every requested provider and merges the
// results. It holds no per-call state and is safe for concurrent use.
type Aggregator struct {
	providers map[models.Platform]Provider
	order     []models.Platform
	tagger    *LanguageTagger
}

type AggregatorOption func(*Aggregator)

// WithLanguageTagger fills in the language of posts the provider left untagged
func WithLanguageTagger(t *LanguageTagger) AggregatorOption {
	return func(a *Aggregator) {
		a.tagger = t
	}
}

// NewAggregator registers providers by platform. A later provider for the
// same platform replaces an earlier one.
func NewAggregator(providers []Provider, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		providers: make(map[models.Platform]Provider, len(providers)),
	}
	for _, p := range providers {
		if _, ok := a.providers[p.Platform()]; !ok {
			a.order = append(a.order, p.Platform())
		}
		a.providers[p.Platform()] = p
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Platforms lists the configured platforms in registration order
func (a *Aggregator) Platforms() []models.Platform {
	return append([]models.Platform(nil), a.order...)
}

// FetchResults queries every platform concurrently and waits for all of them
// to settle. The returned slice is in the order of platforms.
func (a *Aggregator) FetchResults(ctx context.Context, platforms []models.Platform, limit int) []ProviderResult {
	results := make([]ProviderResult, len(platforms))

	var wg sync.WaitGroup
	for i, platform := range platforms {
		wg.Add(1)
		go func(i int, platform models.Platform) {
			defer wg.Done()
			results[i] = a.fetchOne(ctx, platform, limit)
		}(i, platform)
	}
	wg.Wait()

	return results
}

func (a *Aggregator) fetchOne(ctx context.Context, platform models.Platform, limit int) (result ProviderResult) {
	result.Platform = platform

	provider, ok := a.providers[platform]
	if !ok {
		result.Err = fmt.Errorf("%w: %s", ErrUnknownProvider, platform)
		providerFetches.WithLabelValues(string(platform), "unknown").Inc()
		return result
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result.Posts = nil
			result.Err = fmt.Errorf("%s provider panicked: %v", platform, r)
		}
		providerFetchDuration.WithLabelValues(string(platform)).Observe(time.Since(start).Seconds())
		providerFetches.WithLabelValues(string(platform), lo.Ternary(result.Err == nil, "success", "failure")).Inc()
	}()

	posts, err := provider.Fetch(ctx, limit)
	if err != nil {
		result.Err = err
		return result
	}

	// Every post carries the platform it was fetched from. The provider may
	// own the returned slice, so stamp a copy.
	result.Posts = lo.Map(posts, func(p models.SocialPost, _ int) models.SocialPost {
		p.Platform = platform
		return p
	})
	return result
}

// FetchAll returns the merged feed of the given platforms, newest first.
// A failing provider contributes no posts. FetchAll never fails: when every
// provider fails the feed is empty.
func (a *Aggregator) FetchAll(ctx context.Context, platforms []models.Platform, limit int) []models.SocialPost {
	requestID := uuid.NewString()
	results := a.FetchResults(ctx, platforms, limit)

	posts := make([]models.SocialPost, 0)
	for _, result := range results {
		if result.Err != nil {
			log.WithFields(log.Fields{
				"request":  requestID,
				"platform": result.Platform,
				"error":    result.Err,
			}).Warn("Provider fetch failed, continuing without it")
		}
		posts = append(posts, result.PostsOrEmpty()...)
	}

	if a.tagger != nil {
		a.tagger.Tag(posts)
	}

	SortByRecency(posts)

	log.WithFields(log.Fields{
		"request":   requestID,
		"platforms": platforms,
		"limit":     limit,
		"posts":     len(posts),
	}).Info("Aggregated social feed")

	return posts
}

// FetchAllSocialPosts returns the merged feed of every configured provider
func (a *Aggregator) FetchAllSocialPosts(ctx context.Context, limit int) []models.SocialPost {
	return a.FetchAll(ctx, a.order, limit)
}
