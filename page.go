package sitemirror

import "context"

// FrontierEntry is one unit of crawl work: an absolute URL and the
// depth at which it was discovered.
type FrontierEntry struct {
	URL   string
	Depth int
}

// Renderer returns the fully rendered HTML of a page after dynamic
// content has settled.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Renderer interface {
	// Render navigates to the URL, waits for dynamic content to settle,
	// and returns the rendered HTML.
	// The context controls timeout and cancellation.
	Render(ctx context.Context, url string) (html string, err error)

	// Close releases renderer resources.
	// Must be called when the Renderer is no longer needed.
	Close() error
}

// AssetScanner extracts asset references from HTML.
type AssetScanner interface {
	// ScanAssets returns one AssetRef per recognized tag/attribute pair
	// present in the document, in document order.
	ScanAssets(html string) ([]AssetRef, error)
}

// HTMLRewriter applies asset rewrites to HTML.
// The input HTML is treated as immutable; implementations return a new
// document rather than mutating shared state.
type HTMLRewriter interface {
	RewriteAssets(html string, rewrites []AssetRewrite) (string, error)
}

// LinkExtractor returns the absolute URLs of anchor links in HTML,
// resolved against baseURL.
type LinkExtractor interface {
	ExtractLinks(html, baseURL string) ([]string, error)
}

// PageStore persists rewritten page documents.
type PageStore interface {
	// SavePage writes the document for pageURL into the output tree.
	SavePage(ctx context.Context, pageURL, html string) error

	// SaveIndex writes the session root index document.
	SaveIndex(ctx context.Context, html string) error
}

// Frontier manages the crawl queue with at-most-once admission per
// distinct URL string.
type Frontier interface {
	// Push adds an entry to the frontier.
	// Returns false if the URL has already been seen.
	Push(entry FrontierEntry) bool

	// Pop returns the next entry in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of entries in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
