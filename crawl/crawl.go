// Package crawl provides site-mirroring orchestration.
// It coordinates page rendering, asset localization, link discovery,
// and the depth-bounded traversal of the allowed domain.
package crawl

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/kborowski/sitemirror"
	"golang.org/x/sync/errgroup"
)

// Frontier sizing.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// DefaultPageConcurrency bounds the number of pages processed in parallel.
const DefaultPageConcurrency = 4

// Crawler orchestrates a mirroring session over a single allowed domain.
type Crawler struct {
	Renderer sitemirror.Renderer
	Mirrorer *Mirrorer
	Links    sitemirror.LinkExtractor
	Limiter  sitemirror.DomainLimiter

	// Concurrency bounds the page worker pool. Defaults to
	// DefaultPageConcurrency when zero.
	Concurrency int

	// RenderTimeout bounds each render attempt. Zero means the render
	// inherits the session context deadline only.
	RenderTimeout time.Duration

	// RetryDelays configures render retry backoff. Nil selects
	// DefaultRetryDelays.
	RetryDelays []time.Duration
}

// Result holds the aggregate outcome of a mirroring session.
type Result struct {
	Pages        int
	PagesFailed  int
	Assets       int
	AssetsFailed int
	SavesFailed  int
	Bytes        int
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types reported during a session.
const (
	ProgressStarted ProgressType = iota
	ProgressPage
	ProgressPageFailed
	ProgressAssetFailed
	ProgressSaveFailed
	ProgressFinished
)

// ProgressEvent reports progress during a mirroring session.
// ContentHash is set on ProgressPage events and identifies the
// rewritten document that was persisted.
type ProgressEvent struct {
	Type        ProgressType
	URL         string
	Depth       int
	ContentHash string
	Error       error
}

// ProgressFunc is a callback for reporting session progress.
type ProgressFunc func(event ProgressEvent)

// pageOutcome holds the result of processing one frontier entry.
type pageOutcome struct {
	entry     sitemirror.FrontierEntry
	renderErr error
	page      *PageResult
}

// Run mirrors the site reachable from seedURL, breadth-first, up to
// the session's depth bound. Render failures and asset failures are
// recorded in the result and never abort the session; the only fatal
// conditions are an invalid session or seed, a seed page that cannot
// be rendered, and context cancellation.
func (c *Crawler) Run(ctx context.Context, session *sitemirror.Session, seedURL string, progress ProgressFunc) (*Result, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	seed, err := url.Parse(seedURL)
	if err != nil || seed.Host == "" {
		return nil, sitemirror.Errorf(sitemirror.EINVALID, "invalid seed URL %q", seedURL)
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultPageConcurrency
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(sitemirror.FrontierEntry{URL: seedURL, Depth: 0})

	notify(progress, ProgressEvent{Type: ProgressStarted, URL: seedURL})

	var result Result
	var seedErr error

	// Breadth-first traversal: each pass drains one depth level and
	// runs its entries under a bounded worker group. Links discovered
	// during a pass carry depth+1 and wait for the next pass, so a
	// page's assets are always settled before its children start.
	for frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return &result, err
		}

		level := drain(frontier)
		outcomes := make([]pageOutcome, len(level))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, entry := range level {
			i, entry := i, entry
			g.Go(func() error {
				outcomes[i] = c.processEntry(gctx, session, frontier, entry)
				return nil
			})
		}
		_ = g.Wait()

		for _, out := range outcomes {
			if out.renderErr != nil {
				result.PagesFailed++
				notify(progress, ProgressEvent{
					Type:  ProgressPageFailed,
					URL:   out.entry.URL,
					Depth: out.entry.Depth,
					Error: out.renderErr,
				})
				if out.entry.Depth == 0 {
					// A canceled seed is a cancellation, not a render failure.
					if errors.Is(out.renderErr, context.Canceled) {
						seedErr = out.renderErr
					} else {
						seedErr = sitemirror.Errorf(sitemirror.EUNAVAILABLE,
							"seed page %s could not be rendered: %v", out.entry.URL, out.renderErr)
					}
				}
				continue
			}

			result.Pages++
			result.Bytes += len(out.page.HTML)
			if out.page.SaveErr != nil {
				result.SavesFailed++
				notify(progress, ProgressEvent{
					Type:  ProgressSaveFailed,
					URL:   out.entry.URL,
					Depth: out.entry.Depth,
					Error: out.page.SaveErr,
				})
			}
			for _, o := range out.page.Outcomes {
				if o.Err != nil {
					result.AssetsFailed++
					notify(progress, ProgressEvent{
						Type:  ProgressAssetFailed,
						URL:   o.URL,
						Depth: out.entry.Depth,
						Error: o.Err,
					})
				} else {
					result.Assets++
				}
			}
			notify(progress, ProgressEvent{
				Type:        ProgressPage,
				URL:         out.entry.URL,
				Depth:       out.entry.Depth,
				ContentHash: out.page.ContentHash,
			})
		}
	}

	notify(progress, ProgressEvent{Type: ProgressFinished})

	if seedErr != nil {
		return &result, seedErr
	}
	return &result, nil
}

// processEntry runs one frontier entry through the page state machine:
// rate limit, render with retry, mirror, link discovery.
func (c *Crawler) processEntry(ctx context.Context, session *sitemirror.Session, frontier *Frontier, entry sitemirror.FrontierEntry) pageOutcome {
	out := pageOutcome{entry: entry}

	if c.Limiter != nil {
		if u, err := url.Parse(entry.URL); err == nil {
			if err := c.Limiter.Wait(ctx, u.Host); err != nil {
				out.renderErr = err
				return out
			}
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	render := func(ctx context.Context, url string) (string, error) {
		if c.RenderTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.RenderTimeout)
			defer cancel()
		}
		return c.Renderer.Render(ctx, url)
	}

	html, err := RenderWithRetryDelays(ctx, entry.URL, render, nil, delays)
	if err != nil {
		// A page that cannot be rendered contributes nothing further:
		// no mirroring, no link discovery.
		out.renderErr = err
		return out
	}

	page, err := c.Mirrorer.Mirror(ctx, session, entry.URL, html)
	if err != nil {
		out.renderErr = err
		return out
	}
	out.page = page

	// The seed page doubles as the session root document.
	if entry.Depth == 0 && c.Mirrorer.Pages != nil {
		if err := c.Mirrorer.Pages.SaveIndex(ctx, page.HTML); err != nil {
			page.SaveErr = err
		}
	}

	// Link discovery stops at the depth bound.
	if entry.Depth+1 > session.MaxDepth {
		return out
	}

	links, err := c.Links.ExtractLinks(html, entry.URL)
	if err != nil {
		return out
	}
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil || !strings.Contains(u.Host, session.AllowedDomain) {
			continue
		}
		frontier.Push(sitemirror.FrontierEntry{URL: link, Depth: entry.Depth + 1})
	}

	return out
}

// drain removes and returns every queued entry, one depth level's worth.
func drain(f *Frontier) []sitemirror.FrontierEntry {
	var entries []sitemirror.FrontierEntry
	for {
		entry, ok := f.Pop()
		if !ok {
			return entries
		}
		entries = append(entries, entry)
	}
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
