package bluesky

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/xrpc"
	"github.com/labstack/gommon/log"
)

// DefaultAppViewHost serves public, unauthenticated read endpoints
const DefaultAppViewHost = "https://public.api.bsky.app"

// Only the author's own posts and threads they started
const authorFeedFilter = "posts_no_replies"

type Client struct {
	xrpc *xrpc.Client
}

// NewClient creates an unauthenticated client for reading public feeds.
// A nil httpClient falls back to one with a 10 second timeout.
func NewClient(host string, httpClient *http.Client) *Client {
	if host == "" {
		host = DefaultAppViewHost
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{xrpc: &xrpc.Client{
		Host:   host,
		Client: httpClient,
	}}
}

// GetAuthorFeed fetches the latest posts of an actor (handle or DID)
func (c *Client) GetAuthorFeed(ctx context.Context, actor string, limit int64) (*bsky.FeedGetAuthorFeed_Output, error) {
	params := map[string]interface{}{
		"actor":  actor,
		"filter": authorFeedFilter,
		"limit":  limit,
	}

	var out bsky.FeedGetAuthorFeed_Output
	if err := c.xrpc.Do(ctx, xrpc.Query, "", "app.bsky.feed.getAuthorFeed", params, nil, &out); err != nil {
		log.Errorf("failed to get author feed for %s: %s", actor, err)
		return nil, fmt.Errorf("failed to get author feed: %w", err)
	}
	return &out, nil
}
