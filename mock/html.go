package mock

import "github.com/kborowski/sitemirror"

var _ sitemirror.AssetScanner = (*AssetScanner)(nil)

// AssetScanner is a mock implementation of sitemirror.AssetScanner.
type AssetScanner struct {
	ScanAssetsFn func(html string) ([]sitemirror.AssetRef, error)
}

func (s *AssetScanner) ScanAssets(html string) ([]sitemirror.AssetRef, error) {
	return s.ScanAssetsFn(html)
}

var _ sitemirror.HTMLRewriter = (*HTMLRewriter)(nil)

// HTMLRewriter is a mock implementation of sitemirror.HTMLRewriter.
type HTMLRewriter struct {
	RewriteAssetsFn func(html string, rewrites []sitemirror.AssetRewrite) (string, error)
}

func (r *HTMLRewriter) RewriteAssets(html string, rewrites []sitemirror.AssetRewrite) (string, error) {
	return r.RewriteAssetsFn(html, rewrites)
}

var _ sitemirror.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitemirror.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
