package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"eduhub/bluesky"
	"eduhub/config"
	"eduhub/feeds"
	"eduhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
[[events]]
id = "e1"
title = "Go Meetup"
description = "Monthly meetup"
category = "meetup"

[[courses]]
id = "c1"
title = "Distributed Systems"
description = "Consensus and replication in Go"
tags = ["systems"]

[[projects]]
id = "p1"
title = "Library Kiosk"
description = "Self checkout"
technologies = ["Rust"]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// captureStdout runs fn and returns every line it printed
func captureStdout(t *testing.T, fn func()) []string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	done := make(chan []string)
	go func() {
		var lines []string
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		done <- lines
	}()

	fn()
	require.NoError(t, w.Close())
	return <-done
}

func TestBuildProvider(t *testing.T) {
	noRetries := 0

	bsky := buildProvider(config.TomlProvider{Platform: "bluesky", Actor: "campus.bsky.social", Retries: &noRetries})
	require.IsType(t, &bluesky.Provider{}, bsky)
	assert.Equal(t, "campus.bsky.social", bsky.(*bluesky.Provider).Actor)

	instagram := buildProvider(config.TomlProvider{Platform: "instagram", Endpoint: "https://example.com", Retries: &noRetries})
	assert.IsType(t, &feeds.HTTPProvider{}, instagram)
	assert.Equal(t, models.PlatformInstagram, instagram.Platform())

	// Retries wrap the provider but keep its platform
	linkedin := buildProvider(config.TomlProvider{Platform: "linkedin", Endpoint: "https://example.com"})
	_, unwrapped := linkedin.(*feeds.HTTPProvider)
	assert.False(t, unwrapped)
	assert.Equal(t, models.PlatformLinkedIn, linkedin.Platform())
}

func TestBuildAggregator(t *testing.T) {
	cfg := &config.TomlConfig{Social: config.TomlSocial{Providers: []config.TomlProvider{
		{Platform: "linkedin", Endpoint: "https://example.com/linkedin"},
		{Platform: "bluesky", Actor: "campus.bsky.social"},
		{Platform: "instagram", Endpoint: "https://example.com/instagram"},
	}}}

	assert.Equal(t,
		[]models.Platform{models.PlatformLinkedIn, models.PlatformBluesky, models.PlatformInstagram},
		buildAggregator(cfg).Platforms(),
	)
}

func TestSearchCommand(t *testing.T) {
	path := writeFile(t, "catalog.toml", testCatalog)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{name: "all", args: []string{"--catalog", path, "go"}, expected: []string{"e1", "c1"}},
		{name: "courses", args: []string{"--catalog", path, "--type", "course", "go"}, expected: []string{"c1"}},
		{name: "multi word", args: []string{"--catalog", path, "library", "kiosk"}, expected: []string{"p1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := captureStdout(t, func() {
				require.NoError(t, RootApp().Run(append([]string{"eduhub", "search"}, tt.args...)))
			})

			ids := make([]string, 0, len(lines))
			for _, line := range lines {
				var result models.SearchResult
				require.NoError(t, json.Unmarshal([]byte(line), &result))
				ids = append(ids, result.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestSearchCommandFromDatabase(t *testing.T) {
	path := writeFile(t, "catalog.toml", testCatalog)
	database := filepath.Join(t.TempDir(), "eduhub.db")

	require.NoError(t, RootApp().Run([]string{"eduhub", "import", "--database", database, path}))

	// An empty config leaves the catalog to the database
	cfg := writeFile(t, "eduhub.toml", "")
	lines := captureStdout(t, func() {
		require.NoError(t, RootApp().Run([]string{"eduhub", "search", "--config", cfg, "--database", database, "kiosk"}))
	})

	require.Len(t, lines, 1)
	var result models.SearchResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &result))
	assert.Equal(t, "p1", result.ID)
	assert.Equal(t, "/projects/p1", result.Path)
}

func TestImportCommandRequiresCatalog(t *testing.T) {
	database := filepath.Join(t.TempDir(), "eduhub.db")
	assert.Error(t, RootApp().Run([]string{"eduhub", "import", "--database", database}))
}

func TestSearchCommandRejectsUnknownType(t *testing.T) {
	path := writeFile(t, "catalog.toml", testCatalog)
	err := RootApp().Run([]string{"eduhub", "search", "--catalog", path, "--type", "club", "go"})
	assert.Error(t, err)
}

func TestSocialCommand(t *testing.T) {
	instagram := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		io.WriteString(w, `{"items":[
			{"id":"i1","caption":"Old","permalink":"https://instagram.com/p/i1","timestamp":"2024-01-01T10:00:00Z"},
			{"id":"i2","caption":"New","permalink":"https://instagram.com/p/i2","timestamp":"2024-03-01T10:00:00Z"}
		]}`)
	}))
	defer instagram.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer broken.Close()

	path := writeFile(t, "eduhub.toml", fmt.Sprintf(`
[[social.providers]]
platform = "instagram"
endpoint = %q

[[social.providers]]
platform = "linkedin"
endpoint = %q
`, instagram.URL, broken.URL))

	lines := captureStdout(t, func() {
		require.NoError(t, RootApp().Run([]string{"eduhub", "social", "--config", path, "--limit", "2"}))
	})

	require.Len(t, lines, 2)
	var first models.SocialPost
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "i2", first.ID)
	assert.Equal(t, models.PlatformInstagram, first.Platform)
}
