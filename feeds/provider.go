// Package feeds aggregates social media posts from several providers into a
// single reverse-chronological feed.
package feeds

import (
	"context"
	"errors"
	"fmt"

	"eduhub/models"
)

var (
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrMalformedPayload = errors.New("malformed provider payload")
)

// Provider fetches the latest posts of one social media platform
type Provider interface {
	Platform() models.Platform
	// Fetch returns at most limit normalized posts
	Fetch(ctx context.Context, limit int) ([]models.SocialPost, error)
}

// ProviderResult is the outcome of one provider fetch. Err is set when the
// provider failed, in which case Posts is empty.
type ProviderResult struct {
	Platform models.Platform
	Posts    []models.SocialPost
	Err      error
}

// PostsOrEmpty collapses a failed result to an empty post list
func (r ProviderResult) PostsOrEmpty() []models.SocialPost {
	if r.Err != nil {
		return []models.SocialPost{}
	}
	return r.Posts
}

// StatusError is returned when a provider endpoint answers with a non-2xx status
type StatusError struct {
	Platform   models.Platform
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s provider error: %s", e.Platform, e.Status)
	}
	return fmt.Sprintf("%s provider error: %s: %s", e.Platform, e.Status, e.Body)
}

// Temporary reports whether retrying the request could succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode == 408 || e.StatusCode == 429 || e.StatusCode >= 500
}
