package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"eduhub/models"

	"github.com/samber/lo"
)

var errIncompleteItem = errors.New("item is missing id or permalink")

// Normalizer maps one raw provider item into the common post shape
type Normalizer func(raw json.RawMessage) (models.SocialPost, error)

var normalizers = map[models.Platform]Normalizer{
	models.PlatformInstagram: normalizeInstagram,
	models.PlatformLinkedIn:  normalizeLinkedIn,
}

// NormalizerFor returns the normalizer registered for a platform, falling
// back to the generic item shape.
func NormalizerFor(platform models.Platform) Normalizer {
	if n, ok := normalizers[platform]; ok {
		return n
	}
	return normalizeGeneric
}

// RegisterNormalizer adds or replaces the normalizer of a platform.
// It must be called before any provider is created.
func RegisterNormalizer(platform models.Platform, n Normalizer) {
	normalizers[platform] = n
}

type instagramItem struct {
	ID           string            `json:"id"`
	Caption      string            `json:"caption"`
	MediaType    string            `json:"media_type"`
	MediaURL     string            `json:"media_url"`
	ThumbnailURL string            `json:"thumbnail_url"`
	Permalink    string            `json:"permalink"`
	Timestamp    *models.Timestamp `json:"timestamp"`
	Username     string            `json:"username"`
}

func normalizeInstagram(raw json.RawMessage) (models.SocialPost, error) {
	var item instagramItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.SocialPost{}, fmt.Errorf("invalid instagram item: %w", err)
	}

	media := item.MediaURL
	if strings.EqualFold(item.MediaType, "VIDEO") && item.ThumbnailURL != "" {
		media = item.ThumbnailURL
	}

	return complete(models.SocialPost{
		ID:        item.ID,
		Platform:  models.PlatformInstagram,
		Text:      item.Caption,
		MediaURL:  media,
		Permalink: item.Permalink,
		Timestamp: item.Timestamp,
		Author:    item.Username,
	})
}

type linkedInItem struct {
	ID          string            `json:"id"`
	Commentary  string            `json:"commentary"`
	Text        string            `json:"text"`
	MediaURL    string            `json:"media_url"`
	ImageURL    string            `json:"image_url"`
	Permalink   string            `json:"permalink"`
	URL         string            `json:"url"`
	PublishedAt *models.Timestamp `json:"published_at"`
	Timestamp   *models.Timestamp `json:"timestamp"`
	Author      string            `json:"author"`
}

func normalizeLinkedIn(raw json.RawMessage) (models.SocialPost, error) {
	var item linkedInItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.SocialPost{}, fmt.Errorf("invalid linkedin item: %w", err)
	}

	return complete(models.SocialPost{
		ID:        item.ID,
		Platform:  models.PlatformLinkedIn,
		Text:      lo.Ternary(item.Commentary != "", item.Commentary, item.Text),
		MediaURL:  lo.Ternary(item.MediaURL != "", item.MediaURL, item.ImageURL),
		Permalink: lo.Ternary(item.Permalink != "", item.Permalink, item.URL),
		Timestamp: lo.Ternary(item.PublishedAt != nil, item.PublishedAt, item.Timestamp),
		Author:    item.Author,
	})
}

type genericItem struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	MediaURL  string            `json:"media_url"`
	Permalink string            `json:"permalink"`
	Timestamp *models.Timestamp `json:"timestamp"`
	Author    string            `json:"author"`
}

func normalizeGeneric(raw json.RawMessage) (models.SocialPost, error) {
	var item genericItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.SocialPost{}, fmt.Errorf("invalid item: %w", err)
	}

	return complete(models.SocialPost{
		ID:        item.ID,
		Text:      item.Text,
		MediaURL:  item.MediaURL,
		Permalink: item.Permalink,
		Timestamp: item.Timestamp,
		Author:    item.Author,
	})
}

func complete(post models.SocialPost) (models.SocialPost, error) {
	if post.ID == "" || post.Permalink == "" {
		return models.SocialPost{}, errIncompleteItem
	}
	return post, nil
}
