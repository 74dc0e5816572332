// Package slog provides logging decorators for sitemirror interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/kborowski/sitemirror"
)

// Ensure LoggingAssetFetcher implements sitemirror.AssetFetcher.
var _ sitemirror.AssetFetcher = (*LoggingAssetFetcher)(nil)

// LoggingAssetFetcher wraps an AssetFetcher with debug logging.
type LoggingAssetFetcher struct {
	next   sitemirror.AssetFetcher
	logger *slog.Logger
}

// NewLoggingAssetFetcher creates a new LoggingAssetFetcher.
func NewLoggingAssetFetcher(next sitemirror.AssetFetcher, logger *slog.Logger) *LoggingAssetFetcher {
	return &LoggingAssetFetcher{next: next, logger: logger}
}

// Fetch logs the asset transfer and delegates to the wrapped fetcher.
func (f *LoggingAssetFetcher) Fetch(ctx context.Context, absoluteURL, localPath string) (err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch asset",
			"url", absoluteURL,
			"path", localPath,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, absoluteURL, localPath)
}
