package sitemirror

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// AssetAttrs maps the recognized asset tags to their URL-bearing
// attribute.
var AssetAttrs = map[string]string{
	"link":   "href",
	"script": "src",
	"img":    "src",
}

// AssetRef is a single asset reference found in a page.
type AssetRef struct {
	Tag      string
	Attr     string
	RawValue string
}

// ResolvedAsset is the result of resolving an AssetRef against its page.
// LocalPath is slash-separated and relative to the session output root;
// it is deterministic for a given (URL, tag) pair.
type ResolvedAsset struct {
	AbsoluteURL string
	LocalPath   string
	InScope     bool
}

// AssetRewrite pairs an asset reference with the local path its
// attribute should be rewritten to.
type AssetRewrite struct {
	Ref       AssetRef
	LocalPath string
}

// AssetOutcome records the result of fetching one asset.
type AssetOutcome struct {
	Ref AssetRef
	URL string
	Err error
}

// AssetError wraps a per-asset transfer or filesystem failure.
// Asset failures never abort a page or a session.
type AssetError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AssetError) Unwrap() error { return e.Err }

// AssetFetcher downloads a single asset to a local file.
type AssetFetcher interface {
	// Fetch streams the resource at absoluteURL into localPath,
	// creating parent directories as needed. Failures are returned as
	// *AssetError; nothing propagates past this boundary.
	Fetch(ctx context.Context, absoluteURL, localPath string) error
}

// ResolveAsset resolves a raw attribute value found on a page to an
// absolute asset URL and a deterministic local path.
//
// Empty values and data: URIs are never localization candidates and
// resolve out of scope with no path. The domain check matches
// allowedDomain as a substring of the resolved host[:port], the same
// scoping rule link discovery uses.
func ResolveAsset(pageURL, rawValue, allowedDomain, tag string) (ResolvedAsset, error) {
	if rawValue == "" || strings.HasPrefix(rawValue, "data:") {
		return ResolvedAsset{}, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ResolvedAsset{}, Errorf(EINVALID, "invalid page URL %q: %v", pageURL, err)
	}
	ref, err := url.Parse(rawValue)
	if err != nil {
		return ResolvedAsset{}, Errorf(EINVALID, "invalid asset reference %q: %v", rawValue, err)
	}

	resolved := base.ResolveReference(ref)
	if !strings.Contains(resolved.Host, allowedDomain) {
		return ResolvedAsset{AbsoluteURL: resolved.String()}, nil
	}

	return ResolvedAsset{
		AbsoluteURL: resolved.String(),
		LocalPath:   LocalAssetPath(resolved, tag),
		InScope:     true,
	}, nil
}

// LocalAssetPath maps an absolute asset URL to its slash-separated
// path under the output root. A URL path that denotes a directory
// (empty or trailing slash) maps to index.<tag> inside it so every
// asset lands on a leaf file, never a bare directory.
func LocalAssetPath(u *url.URL, tag string) string {
	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index." + tag
	}
	return u.Host + "/" + p
}
