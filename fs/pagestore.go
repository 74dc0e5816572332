// Package fs provides filesystem persistence for mirrored page documents.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kborowski/sitemirror"
)

// Ensure PageStore implements sitemirror.PageStore at compile time.
var _ sitemirror.PageStore = (*PageStore)(nil)

// PagePath converts a page URL to the relative path of its document
// under the output root.
// Example: https://example.org/docs/api → example.org/docs/api/index.html
func PagePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	p := strings.Trim(u.Path, "/")
	if p == "" {
		return path.Join(u.Host, "index.html"), nil
	}
	return path.Join(u.Host, p, "index.html"), nil
}

// PageStore writes rewritten page documents under an output root.
// Every visited page gets its own index.html keyed by host and URL
// path, so pages never overwrite each other's documents. SaveIndex
// writes the session root document, which makes the mirror directly
// openable from the output root.
type PageStore struct {
	outputRoot string
}

// NewPageStore creates a PageStore rooted at outputRoot.
func NewPageStore(outputRoot string) *PageStore {
	return &PageStore{outputRoot: outputRoot}
}

// SavePage writes the document for pageURL, creating parent
// directories as needed and overwriting any previous document.
func (s *PageStore) SavePage(ctx context.Context, pageURL, html string) error {
	relPath, err := PagePath(pageURL)
	if err != nil {
		return sitemirror.Errorf(sitemirror.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}
	return s.write(filepath.Join(s.outputRoot, filepath.FromSlash(relPath)), html)
}

// SaveIndex writes the session root index document.
func (s *PageStore) SaveIndex(ctx context.Context, html string) error {
	return s.write(filepath.Join(s.outputRoot, "index.html"), html)
}

// write persists html at fullPath via a temp file and rename, so an
// interrupted write never leaves a truncated document readable as
// complete.
func (s *PageStore) write(fullPath, html string) error {
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fullPath)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}
