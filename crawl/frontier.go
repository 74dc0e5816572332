package crawl

import (
	"strings"
	"sync"

	"github.com/kborowski/sitemirror"
	"github.com/kborowski/sitemirror/bloom"
)

// Compile-time interface verification.
var _ sitemirror.Frontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with Bloom filter
// deduplication. It is safe for concurrent use by multiple goroutines.
//
// Push performs the membership test and insert under one lock, so
// admission is at-most-once per distinct URL string even when several
// workers discover the same link concurrently.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []sitemirror.FrontierEntry
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push adds an entry to the frontier.
// Returns false if the URL has already been seen.
// URL fragments are stripped before deduplication - URLs differing only
// by fragment are considered duplicates.
func (f *Frontier) Push(entry sitemirror.FrontierEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(entry.URL)
	if f.seen.Test(url) {
		return false
	}
	f.seen.Add(url)

	// Store the URL without fragment
	entry.URL = url
	f.queue = append(f.queue, entry)
	return true
}

// Pop returns the next entry in FIFO order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (sitemirror.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return sitemirror.FrontierEntry{}, false
	}
	entry := f.queue[0]
	f.queue = f.queue[1:]
	return entry, true
}

// Len returns the number of entries in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been processed or queued.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
