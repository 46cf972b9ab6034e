package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/teemow/timewise/internal/logging"
)

const (
	defaultFetchTimeout = 15 * time.Second
	maxFeedSize         = 16 << 20
)

// Source is one ICS feed, read from a URL or a local file.
type Source struct {
	ID   string `mapstructure:"id" json:"id" yaml:"id"`
	URL  string `mapstructure:"url" json:"url,omitempty" yaml:"url,omitempty"`
	Path string `mapstructure:"path" json:"path,omitempty" yaml:"path,omitempty"`
}

// Validate checks that exactly one of URL and Path is set.
func (s Source) Validate() error {
	switch {
	case s.URL == "" && s.Path == "":
		return fmt.Errorf("ics source %q needs a url or a path", s.ID)
	case s.URL != "" && s.Path != "":
		return fmt.Errorf("ics source %q has both url and path", s.ID)
	}
	return nil
}

func (s Source) String() string {
	if s.Path != "" {
		return s.Path
	}
	return logging.SanitizeURL(s.URL)
}

// FetchResult is the body of one feed.
type FetchResult struct {
	Source    Source
	Body      []byte
	FromCache bool
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher downloads feeds with conditional requests. When a cache directory
// is configured the last good body and its validators are kept on disk, and
// the cached body is served if the server is unreachable or answers with an
// error.
type Fetcher struct {
	client   *http.Client
	cacheDir string
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher. An empty cacheDir disables the disk cache.
func NewFetcher(cacheDir string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:   &http.Client{Timeout: defaultFetchTimeout},
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// WithHTTPClient replaces the HTTP client.
func (f *Fetcher) WithHTTPClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

// Fetch returns the body of src.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (FetchResult, error) {
	if err := src.Validate(); err != nil {
		return FetchResult{}, err
	}
	if src.Path != "" {
		body, err := os.ReadFile(src.Path)
		if err != nil {
			return FetchResult{}, fmt.Errorf("failed to read ics file: %w", err)
		}
		return FetchResult{Source: src, Body: body}, nil
	}
	return f.fetchURL(ctx, src)
}

func (f *Fetcher) fetchURL(ctx context.Context, src Source) (FetchResult, error) {
	logger := f.logger.With(slog.String("feed", src.ID), slog.String("url", src.String()))

	var (
		meta   cacheMeta
		cached []byte
		dir    string
	)
	if f.cacheDir != "" {
		dir = f.cachePath(src.URL)
		meta, _ = loadMeta(dir)
		cached, _ = os.ReadFile(filepath.Join(dir, "body.ics"))
	}

	fallback := func(cause error) (FetchResult, error) {
		if len(cached) == 0 {
			return FetchResult{}, cause
		}
		logger.Warn("ics fetch failed, serving cached body", logging.Err(cause))
		return FetchResult{Source: src, Body: cached, FromCache: true}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to build ics request: %w", err)
	}
	if len(cached) > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return FetchResult{}, ctx.Err()
		}
		return fallback(fmt.Errorf("failed to fetch ics feed %s: %w", src.ID, err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
		if err != nil {
			return fallback(fmt.Errorf("failed to read ics feed %s: %w", src.ID, err))
		}
		if dir != "" {
			meta := cacheMeta{
				URL:          src.URL,
				ETag:         resp.Header.Get("ETag"),
				LastModified: resp.Header.Get("Last-Modified"),
			}
			if err := saveCache(dir, meta, body); err != nil {
				logger.Warn("failed to save ics cache", logging.Err(err))
			}
		}
		logger.Debug("fetched ics feed", slog.Int("bytes", len(body)))
		return FetchResult{Source: src, Body: body}, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return FetchResult{}, errors.New("received 304 Not Modified but no cached body available")
		}
		logger.Debug("ics feed not modified")
		return FetchResult{Source: src, Body: cached, FromCache: true}, nil

	default:
		return fallback(fmt.Errorf("ics feed %s returned %s", src.ID, resp.Status))
	}
}

func (f *Fetcher) cachePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func loadMeta(dir string) (cacheMeta, error) {
	var meta cacheMeta
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

func saveCache(dir string, meta cacheMeta, body []byte) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	// Body first so the metadata never points at a missing body.
	if err := os.WriteFile(filepath.Join(dir, "body.ics"), body, 0o600); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o600)
}
