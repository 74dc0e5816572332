package mock

import (
	"context"

	"github.com/kborowski/sitemirror"
)

var _ sitemirror.Frontier = (*Frontier)(nil)

// Frontier is a mock implementation of sitemirror.Frontier.
type Frontier struct {
	PushFn func(entry sitemirror.FrontierEntry) bool
	PopFn  func() (sitemirror.FrontierEntry, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *Frontier) Push(entry sitemirror.FrontierEntry) bool {
	return f.PushFn(entry)
}

func (f *Frontier) Pop() (sitemirror.FrontierEntry, bool) {
	return f.PopFn()
}

func (f *Frontier) Len() int {
	return f.LenFn()
}

func (f *Frontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ sitemirror.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitemirror.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
