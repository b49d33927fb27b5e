package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eduhub/models"

	log "github.com/sirupsen/logrus"
)

const defaultProviderTimeout = 10 * time.Second

// itemsPayload is the response shape of every provider endpoint
type itemsPayload struct {
	Items []json.RawMessage `json:"items"`
}

// HTTPProvider reads posts from an endpoint answering GET ?limit=N with
// {"items": [...]}. Items are mapped through the platform's normalizer.
type HTTPProvider struct {
	platform  models.Platform
	endpoint  string
	client    *http.Client
	normalize Normalizer
	headers   map[string]string
}

type HTTPProviderOption func(*HTTPProvider)

// WithHTTPClient replaces the client, and with it the request timeout
func WithHTTPClient(client *http.Client) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.client = client
	}
}

func WithHeader(key, value string) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.headers[key] = value
	}
}

func WithNormalizer(n Normalizer) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.normalize = n
	}
}

func NewHTTPProvider(platform models.Platform, endpoint string, opts ...HTTPProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		platform:  platform,
		endpoint:  endpoint,
		client:    &http.Client{Timeout: defaultProviderTimeout},
		normalize: NormalizerFor(platform),
		headers:   map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTTPProvider) Platform() models.Platform {
	return p.platform
}

func (p *HTTPProvider) Fetch(ctx context.Context, limit int) ([]models.SocialPost, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s posts: %w", p.platform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			Platform:   p.platform,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var payload itemsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return p.normalizeItems(payload.Items, limit), nil
}

func (p *HTTPProvider) normalizeItems(items []json.RawMessage, limit int) []models.SocialPost {
	posts := make([]models.SocialPost, 0, len(items))
	for _, item := range items {
		if limit > 0 && len(posts) >= limit {
			break
		}
		post, err := p.normalize(item)
		if err != nil {
			log.WithFields(log.Fields{
				"platform": p.platform,
				"error":    err,
			}).Debug("Dropping provider item")
			continue
		}
		post.Platform = p.platform
		posts = append(posts, post)
	}
	return posts
}

var _ Provider = (*HTTPProvider)(nil)
