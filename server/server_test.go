package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduhub/catalog"
	"eduhub/feeds"
	"eduhub/models"
	"eduhub/search"
	"eduhub/server"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	platform models.Platform
	posts    []models.SocialPost
	err      error
	limits   chan int
}

func (s *stubProvider) Platform() models.Platform { return s.platform }

func (s *stubProvider) Fetch(ctx context.Context, limit int) ([]models.SocialPost, error) {
	if s.limits != nil {
		s.limits <- limit
	}
	if s.err != nil {
		return nil, s.err
	}
	return lo.Subset(s.posts, 0, uint(limit)), nil
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Events: []*models.Event{
			{ID: "e1", Title: "Go Workshop", Description: "Hands-on Go", Category: "workshop", Date: "2024-05-01"},
		},
		Courses: []*models.Course{
			{ID: "c1", Title: "Intro to Go", Description: "Basics", Tags: []string{"golang"}, Instructor: "Kari", Level: "beginner"},
		},
		Projects: []*models.Project{
			{ID: "p1", Title: "Campus App", Description: "Mobile app", Technologies: []string{"Go", "Flutter"}},
		},
	}
}

func testServer(providers ...feeds.Provider) *server.ServerConfig {
	return &server.ServerConfig{
		Search:       search.NewService(testCatalog(), 0),
		Feed:         feeds.NewAggregator(providers),
		DefaultLimit: 5,
	}
}

func get(t *testing.T, config *server.ServerConfig, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := server.Server(config).Test(httptest.NewRequest(http.MethodGet, target, nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestSearchEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected []string
	}{
		{name: "all types", target: "/api/search?q=go", expected: []string{"e1", "c1", "p1"}},
		{name: "events only", target: "/api/search?q=go&type=event", expected: []string{"e1"}},
		{name: "courses only", target: "/api/search?q=golang&type=course", expected: []string{"c1"}},
		{name: "empty query", target: "/api/search?q=", expected: []string{}},
		{name: "no match", target: "/api/search?q=zzz", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, testServer(), tt.target)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var out models.SearchResponse
			require.NoError(t, json.Unmarshal(body, &out))
			require.NotNil(t, out.Results)
			assert.Equal(t, tt.expected, lo.Map(out.Results, func(r models.SearchResult, _ int) string { return r.ID }))
		})
	}
}

func TestSearchEndpointProjection(t *testing.T) {
	_, body := get(t, testServer(), "/api/search?q=intro")

	var out models.SearchResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Results, 1)

	result := out.Results[0]
	assert.Equal(t, models.EntityCourse, result.Type)
	assert.Equal(t, "/courses/c1", result.Path)
	require.NotNil(t, result.Meta)
	assert.Equal(t, "Kari", result.Meta.Instructor)
	assert.Equal(t, "beginner", result.Meta.Level)
}

func TestSearchEndpointRejectsUnknownType(t *testing.T) {
	resp, _ := get(t, testServer(), "/api/search?q=go&type=workshop")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSocialEndpoint(t *testing.T) {
	instagram := &stubProvider{
		platform: models.PlatformInstagram,
		posts: []models.SocialPost{
			{ID: "i1", Permalink: "https://instagram.com/p/i1", Timestamp: models.TimestampFromString("2024-01-01T10:00:00Z")},
		},
	}
	linkedin := &stubProvider{
		platform: models.PlatformLinkedIn,
		posts: []models.SocialPost{
			{ID: "l1", Permalink: "https://linkedin.com/l1", Timestamp: models.TimestampFromString("2024-01-02T10:00:00Z")},
		},
	}

	resp, body := get(t, testServer(instagram, linkedin), "/api/social")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.FeedResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Posts, 2)
	assert.Equal(t, "l1", out.Posts[0].ID)
	assert.Equal(t, models.PlatformLinkedIn, out.Posts[0].Platform)
	assert.Equal(t, "i1", out.Posts[1].ID)
}

func TestSocialEndpointSurvivesFailures(t *testing.T) {
	instagram := &stubProvider{platform: models.PlatformInstagram, err: errors.New("down")}
	linkedin := &stubProvider{platform: models.PlatformLinkedIn, err: errors.New("down")}

	resp, body := get(t, testServer(instagram, linkedin), "/api/social")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"posts":[]}`, string(body))
}

func TestSocialEndpointProviderSelection(t *testing.T) {
	instagram := &stubProvider{
		platform: models.PlatformInstagram,
		posts:    []models.SocialPost{{ID: "i1", Permalink: "https://instagram.com/p/i1"}},
	}
	linkedin := &stubProvider{
		platform: models.PlatformLinkedIn,
		posts:    []models.SocialPost{{ID: "l1", Permalink: "https://linkedin.com/l1"}},
	}

	_, body := get(t, testServer(instagram, linkedin), "/api/social?providers=%20LinkedIn%20,,linkedin")

	var out models.FeedResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Posts, 1)
	assert.Equal(t, "l1", out.Posts[0].ID)
}

func TestSocialEndpointLimit(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected int
	}{
		{name: "default", target: "/api/social", expected: 5},
		{name: "explicit", target: "/api/social?limit=3", expected: 3},
		{name: "clamped high", target: "/api/social?limit=500", expected: 50},
		{name: "zero falls back", target: "/api/social?limit=0", expected: 5},
		{name: "garbage falls back", target: "/api/social?limit=abc", expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{platform: models.PlatformInstagram, limits: make(chan int, 1)}
			resp, _ := get(t, testServer(provider), tt.target)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			select {
			case limit := <-provider.limits:
				assert.Equal(t, tt.expected, limit)
			case <-time.After(time.Second):
				t.Fatal("provider was not called")
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	resp, body := get(t, testServer(), "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, _ = get(t, testServer(), "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, testServer(), "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	resp, _ := get(t, testServer(), "/healthz")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
