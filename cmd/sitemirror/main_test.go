package main_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/kborowski/sitemirror"
	main "github.com/kborowski/sitemirror/cmd/sitemirror"
	"github.com/kborowski/sitemirror/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedHTML = `<html>
<head><link rel="stylesheet" href="/styles.css"></head>
<body><img src="https://example.org/images/logo.png"><a href="/about">About</a></body>
</html>`

// newTestMain returns a Main with the browser and network swapped out for mocks.
func newTestMain(renderFn func(ctx context.Context, url string) (string, error)) (*main.Main, *sync.Map) {
	fetched := &sync.Map{}

	m := main.NewMain()
	m.NewRenderer = func(settle time.Duration) (sitemirror.Renderer, error) {
		return &mock.Renderer{RenderFn: renderFn}, nil
	}
	m.NewAssetFetcher = func() sitemirror.AssetFetcher {
		return &mock.AssetFetcher{
			FetchFn: func(ctx context.Context, absoluteURL, localPath string) error {
				fetched.Store(absoluteURL, localPath)
				return nil
			},
		}
	}
	return m, fetched
}

func TestMain_Run_MirrorsSeedPage(t *testing.T) {
	t.Parallel()

	m, fetched := newTestMain(func(ctx context.Context, url string) (string, error) {
		return seedHTML, nil
	})

	out := filepath.Join(t.TempDir(), "site")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"https://example.org/", "-o", out}, stdout, stderr)
	require.NoError(t, err)

	// Page document saved under its host directory and copied to the root index.
	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "example.org", "index.html"))

	// Both referenced assets fetched to output-relative local paths.
	cssPath, ok := fetched.Load("https://example.org/styles.css")
	require.True(t, ok, "stylesheet should have been fetched")
	assert.Equal(t, filepath.Join(out, "example.org", "styles.css"), cssPath)

	_, ok = fetched.Load("https://example.org/images/logo.png")
	assert.True(t, ok, "image should have been fetched")

	// Saved HTML references the local asset copies.
	saved, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "example.org/styles.css")
	assert.NotContains(t, string(saved), `href="/styles.css"`)

	// The page line reports the persisted document's content hash.
	hash := fmt.Sprintf("%x", xxhash.Sum64String(string(saved)))
	assert.Contains(t, stdout.String(), "["+hash+"]")

	assert.Contains(t, stdout.String(), "Mirrored 1 pages, 2 assets")
	assert.Empty(t, stderr.String())
}

func TestMain_Run_FollowsLinksToMaxDepth(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	rendered := []string{}
	m, _ := newTestMain(func(ctx context.Context, url string) (string, error) {
		mu.Lock()
		rendered = append(rendered, url)
		mu.Unlock()
		return seedHTML, nil
	})

	out := filepath.Join(t.TempDir(), "site")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"https://example.org/", "-o", out, "-d", "1", "--rate", "100"}, stdout, stderr)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"https://example.org/", "https://example.org/about"}, rendered)
	assert.FileExists(t, filepath.Join(out, "example.org", "about", "index.html"))
	assert.Contains(t, stdout.String(), "Mirrored 2 pages")
}

func TestMain_Run_ReportsUnwritableOutput(t *testing.T) {
	t.Parallel()

	m, _ := newTestMain(func(ctx context.Context, url string) (string, error) {
		return "<html></html>", nil
	})

	// A regular file at the output root makes every document write fail.
	out := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(out, []byte("x"), 0644))

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"https://example.org/", "-o", out}, stdout, stderr)
	require.NoError(t, err, "write failures are reported, not session-fatal")

	assert.Contains(t, stderr.String(), "save ")
	assert.Contains(t, stdout.String(), "1 page documents could not be written")
}

func TestMain_Run_InvalidSeedURL(t *testing.T) {
	t.Parallel()

	m, _ := newTestMain(func(ctx context.Context, url string) (string, error) {
		return "", errors.New("should not be called")
	})

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"not-a-url", "-o", t.TempDir()}, stdout, stderr)
	require.Error(t, err)
	assert.Equal(t, sitemirror.EINVALID, sitemirror.ErrorCode(err))
	assert.Contains(t, stderr.String(), "invalid URL")
}

func TestMain_Run_DomainFlagOverridesSeedHost(t *testing.T) {
	t.Parallel()

	m, fetched := newTestMain(func(ctx context.Context, url string) (string, error) {
		return `<html><body><img src="https://cdn.example.org/pixel.png"></body></html>`, nil
	})

	out := filepath.Join(t.TempDir(), "site")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"https://www.example.org/", "-o", out, "--domain", "example.org"}, stdout, stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "domain example.org")
	_, ok := fetched.Load("https://cdn.example.org/pixel.png")
	assert.True(t, ok, "asset on a matching subdomain should be fetched")
}

func TestMain_Run_BrowserStartFailure(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.NewRenderer = func(settle time.Duration) (sitemirror.Renderer, error) {
		return nil, errors.New("chrome not found")
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"https://example.org/"}, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start browser")
	assert.Contains(t, stderr.String(), "Chrome or Chromium")
}

func TestMain_Run_VerboseLogsToStderr(t *testing.T) {
	t.Parallel()

	m, _ := newTestMain(func(ctx context.Context, url string) (string, error) {
		return "<html></html>", nil
	})

	out := filepath.Join(t.TempDir(), "site")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"https://example.org/", "-o", out, "-v"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "render")
}
