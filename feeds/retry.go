package feeds

import (
	"context"
	"errors"
	"time"

	"eduhub/models"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// RetryPolicy configures WithRetry. MaxRetries counts attempts after the first.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      1.5,
	}
}

type retryingProvider struct {
	Provider
	policy RetryPolicy
}

// WithRetry decorates a provider so transient failures are retried with
// exponential backoff before the result reaches the aggregator. Client
// errors and malformed payloads are not retried.
func WithRetry(p Provider, policy RetryPolicy) Provider {
	if policy.MaxRetries == 0 {
		return p
	}
	return &retryingProvider{Provider: p, policy: policy}
}

func (r *retryingProvider) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		b.InitialInterval = r.policy.InitialInterval
	}
	if r.policy.MaxInterval > 0 {
		b.MaxInterval = r.policy.MaxInterval
	}
	if r.policy.Multiplier >= 1 {
		b.Multiplier = r.policy.Multiplier
	}
	b.MaxElapsedTime = 0 // Bounded by MaxRetries and ctx instead
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, r.policy.MaxRetries), ctx)
}

func (r *retryingProvider) Fetch(ctx context.Context, limit int) ([]models.SocialPost, error) {
	var posts []models.SocialPost

	operation := func() error {
		var err error
		posts, err = r.Provider.Fetch(ctx, limit)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		providerRetries.WithLabelValues(string(r.Platform())).Inc()
		log.WithFields(log.Fields{
			"platform": r.Platform(),
			"error":    err,
			"wait":     wait,
		}).Info("Retrying provider fetch")
	}

	if err := backoff.RetryNotify(operation, r.newBackOff(ctx), notify); err != nil {
		return nil, err
	}
	return posts, nil
}

func retryable(err error) bool {
	if errors.Is(err, ErrMalformedPayload) || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}
