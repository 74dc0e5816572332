package crawl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/kborowski/sitemirror"
	"golang.org/x/sync/errgroup"
)

// DefaultAssetConcurrency bounds parallel asset downloads within one page.
const DefaultAssetConcurrency = 8

// Mirrorer localizes one rendered page: it downloads the page's
// in-scope assets and rewrites their references to paths relative to
// the session output root.
type Mirrorer struct {
	Scanner  sitemirror.AssetScanner
	Rewriter sitemirror.HTMLRewriter
	Assets   sitemirror.AssetFetcher
	Pages    sitemirror.PageStore

	// AssetConcurrency bounds parallel asset downloads for one page.
	// Defaults to DefaultAssetConcurrency when zero.
	AssetConcurrency int
}

// PageResult holds the outcome of mirroring a single page.
type PageResult struct {
	URL         string
	HTML        string // rewritten document
	ContentHash string
	Outcomes    []sitemirror.AssetOutcome
	Saved       bool
	SaveErr     error
}

// Fetched returns the number of successfully fetched assets.
func (r *PageResult) Fetched() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of assets that could not be fetched.
func (r *PageResult) Failed() int {
	return len(r.Outcomes) - r.Fetched()
}

// assetJob pairs a scanned reference with its resolution.
type assetJob struct {
	ref      sitemirror.AssetRef
	resolved sitemirror.ResolvedAsset
}

// Mirror downloads the in-scope assets referenced by html and returns
// the document with every successfully fetched reference rewritten to
// its local path. Failed fetches leave the original attribute value
// untouched; out-of-scope and data: references are never touched.
//
// Mirror never fails as a whole: per-asset errors and page-store
// errors are recorded in the result. The only error return is context
// cancellation. Unparseable HTML degrades to persisting the original
// document unchanged.
func (m *Mirrorer) Mirror(ctx context.Context, session *sitemirror.Session, pageURL, html string) (*PageResult, error) {
	result := &PageResult{URL: pageURL, HTML: html}

	refs, scanErr := m.Scanner.ScanAssets(html)
	if scanErr != nil {
		result.ContentHash = contentHash(html)
		m.save(ctx, result)
		return result, nil
	}

	var jobs []assetJob
	for _, ref := range refs {
		resolved, err := sitemirror.ResolveAsset(pageURL, ref.RawValue, session.AllowedDomain, ref.Tag)
		if err != nil || !resolved.InScope {
			continue
		}
		jobs = append(jobs, assetJob{ref: ref, resolved: resolved})
	}

	concurrency := m.AssetConcurrency
	if concurrency <= 0 {
		concurrency = DefaultAssetConcurrency
	}

	// Assets within one page have no ordering dependency on each other.
	outcomes := make([]sitemirror.AssetOutcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			localPath := filepath.Join(session.OutputRoot, filepath.FromSlash(job.resolved.LocalPath))
			err := m.Assets.Fetch(gctx, job.resolved.AbsoluteURL, localPath)
			outcomes[i] = sitemirror.AssetOutcome{
				Ref: job.ref,
				URL: job.resolved.AbsoluteURL,
				Err: err,
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Outcomes = outcomes

	// The rewrite happens only after every asset outcome is known.
	var rewrites []sitemirror.AssetRewrite
	for i, job := range jobs {
		if outcomes[i].Err != nil {
			continue
		}
		rewrites = append(rewrites, sitemirror.AssetRewrite{
			Ref:       job.ref,
			LocalPath: job.resolved.LocalPath,
		})
	}

	rewritten, err := m.Rewriter.RewriteAssets(html, rewrites)
	if err != nil {
		// Pass the original document through rather than failing the page.
		rewritten = html
	}
	result.HTML = rewritten
	result.ContentHash = contentHash(rewritten)

	m.save(ctx, result)
	return result, nil
}

// save persists the page document, recording rather than returning
// store failures. A write failure is page-local, never session-fatal.
func (m *Mirrorer) save(ctx context.Context, result *PageResult) {
	if m.Pages == nil {
		return
	}
	if err := m.Pages.SavePage(ctx, result.URL, result.HTML); err != nil {
		result.SaveErr = err
		return
	}
	result.Saved = true
}

// contentHash computes a hash of the content using xxhash.
func contentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
