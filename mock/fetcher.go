package mock

import (
	"context"

	"github.com/kborowski/sitemirror"
)

var _ sitemirror.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher is a mock implementation of sitemirror.AssetFetcher.
type AssetFetcher struct {
	FetchFn func(ctx context.Context, absoluteURL, localPath string) error
}

func (f *AssetFetcher) Fetch(ctx context.Context, absoluteURL, localPath string) error {
	return f.FetchFn(ctx, absoluteURL, localPath)
}
