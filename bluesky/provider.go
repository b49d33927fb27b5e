// Package bluesky reads public author feeds from the Bluesky AppView and
// normalizes them for the social feed aggregator.
package bluesky

import (
	"context"
	"fmt"

	"eduhub/feeds"
	"eduhub/models"

	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/labstack/gommon/log"
)

// Provider serves the posts of one Bluesky account
type Provider struct {
	Client *Client
	Actor  string
}

func NewProvider(client *Client, actor string) *Provider {
	return &Provider{Client: client, Actor: actor}
}

func (p *Provider) Platform() models.Platform {
	return models.PlatformBluesky
}

func (p *Provider) Fetch(ctx context.Context, limit int) ([]models.SocialPost, error) {
	if p.Actor == "" {
		return nil, fmt.Errorf("bluesky provider has no actor configured")
	}

	out, err := p.Client.GetAuthorFeed(ctx, p.Actor, int64(limit))
	if err != nil {
		return nil, err
	}

	posts := NormalizeFeed(out.Feed)
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// NormalizeFeed maps author feed entries to social posts. Reposts of other
// accounts and entries without a post record are skipped.
func NormalizeFeed(feed []*bsky.FeedDefs_FeedViewPost) []models.SocialPost {
	posts := make([]models.SocialPost, 0, len(feed))

	for _, item := range feed {
		if item == nil || item.Post == nil {
			continue
		}
		if item.Reason != nil && item.Reason.FeedDefs_ReasonRepost != nil {
			continue
		}

		post, err := normalizePost(item.Post)
		if err != nil {
			log.Debugf("skipping bluesky post %s: %s", item.Post.Uri, err)
			continue
		}
		posts = append(posts, post)
	}

	return posts
}

func normalizePost(view *bsky.FeedDefs_PostView) (models.SocialPost, error) {
	if view.Record == nil {
		return models.SocialPost{}, fmt.Errorf("missing record")
	}
	record, ok := view.Record.Val.(*bsky.FeedPost)
	if !ok {
		return models.SocialPost{}, fmt.Errorf("unexpected record type %T", view.Record.Val)
	}

	uri, err := syntax.ParseATURI(view.Uri)
	if err != nil {
		return models.SocialPost{}, fmt.Errorf("failed to parse at uri: %w", err)
	}

	author := uri.Authority().String()
	if view.Author != nil && view.Author.Handle != "" {
		author = view.Author.Handle
	}

	post := models.SocialPost{
		ID:        view.Uri,
		Platform:  models.PlatformBluesky,
		Text:      record.Text,
		Permalink: fmt.Sprintf("https://bsky.app/profile/%s/post/%s", author, uri.RecordKey().String()),
		Author:    author,
	}

	if len(record.Langs) > 0 {
		post.Lang = record.Langs[0]
	}

	switch {
	case record.CreatedAt != "":
		post.Timestamp = models.TimestampFromString(record.CreatedAt)
	case view.IndexedAt != "":
		post.Timestamp = models.TimestampFromString(view.IndexedAt)
	}

	if view.Embed != nil && view.Embed.EmbedImages_View != nil && len(view.Embed.EmbedImages_View.Images) > 0 {
		post.MediaURL = view.Embed.EmbedImages_View.Images[0].Fullsize
	}

	return post, nil
}

var _ feeds.Provider = (*Provider)(nil)
