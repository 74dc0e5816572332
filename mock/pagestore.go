package mock

import (
	"context"

	"github.com/kborowski/sitemirror"
)

var _ sitemirror.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of sitemirror.PageStore.
type PageStore struct {
	SavePageFn  func(ctx context.Context, pageURL, html string) error
	SaveIndexFn func(ctx context.Context, html string) error
}

func (s *PageStore) SavePage(ctx context.Context, pageURL, html string) error {
	return s.SavePageFn(ctx, pageURL, html)
}

func (s *PageStore) SaveIndex(ctx context.Context, html string) error {
	return s.SaveIndexFn(ctx, html)
}
