// Package rod provides a sitemirror.Renderer backed by Chrome browser
// automation, for pages whose content only materializes after
// JavaScript runs.
package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/kborowski/sitemirror"
)

// DefaultSettleDelay is the time allowed for dynamic content to finish
// loading after the page load event fires.
const DefaultSettleDelay = 5 * time.Second

// Ensure Renderer implements sitemirror.Renderer at compile time.
var _ sitemirror.Renderer = (*Renderer)(nil)

// Renderer retrieves rendered HTML from URLs using a headless Chrome
// browser. Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager *BrowserManager
	settle  time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSettleDelay sets the settle budget applied after page load.
// Defaults to DefaultSettleDelay (5s) if not specified.
func WithSettleDelay(d time.Duration) Option {
	return func(r *Renderer) {
		r.settle = d
	}
}

// NewRenderer creates a Renderer that launches a headless Chrome
// browser. Close must be called when the Renderer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		settle: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(r)
	}

	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	r.manager = manager

	return r, nil
}

// Render navigates to the URL, waits for the load event plus the
// settle budget, and returns the rendered HTML. The context bounds
// navigation and settling; exceeding it is a render failure for that
// page only.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := r.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	// Give dynamic content time to settle, bounded by the context.
	if r.settle > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.settle):
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	r.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	return r.manager.Close()
}
