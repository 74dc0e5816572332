package mock

import (
	"context"

	"github.com/kborowski/sitemirror"
)

var _ sitemirror.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of sitemirror.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (string, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}
