package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kborowski/sitemirror"
	"github.com/kborowski/sitemirror/crawl"
)

// Run executes the mirror command.
func (c *MirrorCmd) Run(deps *Dependencies) error {
	domain := c.Domain
	if domain == "" {
		u, err := url.Parse(c.URL)
		if err != nil || u.Host == "" {
			fmt.Fprintf(deps.Stderr, "error: invalid URL %q\n", c.URL)
			return sitemirror.Errorf(sitemirror.EINVALID, "invalid seed URL %q", c.URL)
		}
		domain = strings.TrimPrefix(u.Hostname(), "www.")
	}

	session := sitemirror.NewSession(c.Output, domain, c.MaxDepth)

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Mirroring %s (domain %s, depth %d)\n", c.URL, domain, c.MaxDepth)
		case crawl.ProgressPage:
			fmt.Fprintf(deps.Stdout, "  page %s [%s]\n", crawl.TruncateURL(event.URL, 80), event.ContentHash)
		case crawl.ProgressPageFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		case crawl.ProgressAssetFailed:
			fmt.Fprintf(deps.Stderr, "  asset %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		case crawl.ProgressSaveFailed:
			fmt.Fprintf(deps.Stderr, "  save %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		case crawl.ProgressFinished:
			// Summary printed after the crawl completes
		}
	}

	result, err := deps.Crawler.Run(deps.Ctx, session, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitemirror.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Mirrored %d pages, %d assets (%s) into %s\n",
		result.Pages, result.Assets, crawl.FormatBytes(result.Bytes), c.Output)
	if result.PagesFailed > 0 || result.AssetsFailed > 0 {
		fmt.Fprintf(deps.Stdout, "  %d pages and %d assets could not be mirrored\n",
			result.PagesFailed, result.AssetsFailed)
	}
	if result.SavesFailed > 0 {
		fmt.Fprintf(deps.Stdout, "  %d page documents could not be written\n", result.SavesFailed)
	}
	return nil
}
