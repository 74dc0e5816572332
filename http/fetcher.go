// Package http provides a streamed HTTP implementation of
// sitemirror.AssetFetcher.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kborowski/sitemirror"
)

// DefaultFetchTimeout is the default timeout for asset transfers.
const DefaultFetchTimeout = 30 * time.Second

// Ensure AssetFetcher implements sitemirror.AssetFetcher at compile time.
var _ sitemirror.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher downloads assets over HTTP with streamed writes.
// Each asset is written to a temporary file and renamed into place on
// success, so a failed transfer never leaves a partial file readable
// as complete. AssetFetcher is safe for concurrent use.
type AssetFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures an AssetFetcher.
type Option func(*AssetFetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *AssetFetcher) {
		f.timeout = d
	}
}

// NewAssetFetcher creates a new AssetFetcher.
func NewAssetFetcher(opts ...Option) *AssetFetcher {
	f := &AssetFetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch streams the resource at absoluteURL into localPath, creating
// parent directories as needed. An existing file at localPath is
// overwritten. All failures are returned as *sitemirror.AssetError.
func (f *AssetFetcher) Fetch(ctx context.Context, absoluteURL, localPath string) error {
	if err := f.fetch(ctx, absoluteURL, localPath); err != nil {
		return &sitemirror.AssetError{URL: absoluteURL, Err: err}
	}
	return nil
}

func (f *AssetFetcher) fetch(ctx context.Context, absoluteURL, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, absoluteURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, absoluteURL)
	}

	tmp, err := os.CreateTemp(filepath.Dir(localPath), filepath.Base(localPath)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}
