package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kborowski/sitemirror"
)

// Compile-time interface verification.
var _ sitemirror.HTMLRewriter = (*Rewriter)(nil)

// Rewriter applies asset rewrites as an explicit transform: it parses
// the input HTML, sets the rewritten attributes on a fresh document,
// and serializes the result. The input string is never mutated.
type Rewriter struct{}

// NewRewriter creates a new Rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// RewriteAssets returns a new HTML document in which every element
// matching a rewrite's tag and original attribute value has its
// attribute replaced with the rewrite's local path. Elements without
// a matching rewrite keep their original attribute byte-for-byte.
func (r *Rewriter) RewriteAssets(html string, rewrites []sitemirror.AssetRewrite) (string, error) {
	if len(rewrites) == 0 {
		return html, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", sitemirror.Errorf(sitemirror.EINVALID, "failed to parse HTML: %v", err)
	}

	// Index rewrites by tag and original attribute value.
	byTag := make(map[string]map[string]string)
	for _, rw := range rewrites {
		values := byTag[rw.Ref.Tag]
		if values == nil {
			values = make(map[string]string)
			byTag[rw.Ref.Tag] = values
		}
		values[rw.Ref.RawValue] = rw.LocalPath
	}

	for tag, values := range byTag {
		attr, ok := sitemirror.AssetAttrs[tag]
		if !ok {
			continue
		}
		doc.Find(tag + "[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			raw, _ := sel.Attr(attr)
			if local, ok := values[raw]; ok {
				sel.SetAttr(attr, local)
			}
		})
	}

	return doc.Html()
}
