package covers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// Fetcher downloads cover images to a local directory so history views keep
// working when the upstream CDN drops an image.
type Fetcher struct {
	HTTP *http.Client
	Dir  string
}

func NewFetcher(dir string) (*Fetcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}
	return &Fetcher{
		HTTP: &http.Client{Timeout: 10 * time.Second},
		Dir:  dir,
	}, nil
}

// Download fetches the image at url and stores it as game_<id>.<ext>,
// returning the local URL path to serve it under.
func (f *Fetcher) Download(ctx context.Context, url string, gameID int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cover download returned status %d", resp.StatusCode)
	}

	ext := extensionFromURL(url)
	filename := fmt.Sprintf("game_%d.%s", gameID, ext)

	out, err := os.Create(filepath.Join(f.Dir, filename))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}
	return "/static/covers/" + filename, nil
}

func extensionFromURL(url string) string {
	trimmed := url
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(trimmed), "."))
	if !allowedExtensions[ext] {
		return "jpg"
	}
	return ext
}
