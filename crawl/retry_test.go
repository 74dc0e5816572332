package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kborowski/sitemirror/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWithRetryDelays(t *testing.T) {
	t.Parallel()

	shortDelays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("returns immediately on success", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		render := func(ctx context.Context, url string) (string, error) {
			attempts++
			return "<html></html>", nil
		}

		html, err := crawl.RenderWithRetryDelays(context.Background(), "https://example.org", render, nil, shortDelays)
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		render := func(ctx context.Context, url string) (string, error) {
			attempts++
			if attempts < 3 {
				return "", errors.New("navigation failed")
			}
			return "<html></html>", nil
		}

		html, err := crawl.RenderWithRetryDelays(context.Background(), "https://example.org", render, nil, shortDelays)
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns the last error after exhausting retries", func(t *testing.T) {
		t.Parallel()

		lastErr := errors.New("still failing")
		attempts := 0
		render := func(ctx context.Context, url string) (string, error) {
			attempts++
			return "", lastErr
		}

		_, err := crawl.RenderWithRetryDelays(context.Background(), "https://example.org", render, nil, shortDelays)
		require.Error(t, err)
		assert.Equal(t, lastErr, err)
		assert.Equal(t, 3, attempts, "1 initial attempt + 2 retries")
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		render := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", errors.New("failed")
		}

		_, err := crawl.RenderWithRetryDelays(ctx, "https://example.org", render, nil, crawl.DefaultRetryDelays())
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("logs each retry attempt", func(t *testing.T) {
		t.Parallel()

		var logged []string
		logger := func(format string, args ...any) {
			logged = append(logged, format)
		}
		render := func(ctx context.Context, url string) (string, error) {
			return "", errors.New("failed")
		}

		_, err := crawl.RenderWithRetryDelays(context.Background(), "https://example.org", render, logger, shortDelays)
		require.Error(t, err)
		assert.Len(t, logged, 2)
	})
}
