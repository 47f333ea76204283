package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-image-bytes"))
	}))
	defer server.Close()

	fetcher, err := NewFetcher(t.TempDir())
	require.NoError(t, err)

	local, err := fetcher.Download(context.Background(), server.URL+"/covers/hades.png", 7)
	require.NoError(t, err)
	assert.Equal(t, "/static/covers/game_7.png", local)

	data, err := os.ReadFile(filepath.Join(fetcher.Dir, "game_7.png"))
	require.NoError(t, err)
	assert.Equal(t, "fake-image-bytes", string(data))
}

func TestDownloadBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher, err := NewFetcher(t.TempDir())
	require.NoError(t, err)

	_, err = fetcher.Download(context.Background(), server.URL+"/missing.jpg", 7)
	assert.Error(t, err)
}

func TestExtensionFromURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example.com/hades.png":            "png",
		"https://cdn.example.com/hades.JPG":            "jpg",
		"https://cdn.example.com/hades.webp?t=1234":    "webp",
		"https://cdn.example.com/hades":                "jpg",
		"https://cdn.example.com/hades.svg":            "jpg",
		"https://cdn.example.com/apps/1234/header.jpg": "jpg",
	}
	for url, want := range cases {
		assert.Equal(t, want, extensionFromURL(url), url)
	}
}
