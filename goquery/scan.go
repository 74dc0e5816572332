// Package goquery provides the HTML structural operations mirroring
// needs: asset reference scanning, attribute rewriting, and anchor
// link extraction, built on PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kborowski/sitemirror"
)

// Compile-time interface verification.
var _ sitemirror.AssetScanner = (*Scanner)(nil)

// assetTagOrder fixes the scan order so results are stable across runs.
var assetTagOrder = []string{"link", "script", "img"}

// Scanner extracts asset references from HTML.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanAssets returns one AssetRef per element carrying a recognized
// URL-bearing attribute, in document order within each tag.
func (s *Scanner) ScanAssets(html string) ([]sitemirror.AssetRef, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitemirror.Errorf(sitemirror.EINVALID, "failed to parse HTML: %v", err)
	}

	var refs []sitemirror.AssetRef
	for _, tag := range assetTagOrder {
		attr := sitemirror.AssetAttrs[tag]
		doc.Find(tag + "[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			raw, _ := sel.Attr(attr)
			refs = append(refs, sitemirror.AssetRef{
				Tag:      tag,
				Attr:     attr,
				RawValue: raw,
			})
		})
	}

	return refs, nil
}
