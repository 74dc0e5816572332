package goquery_test

import (
	"testing"

	"github.com/kborowski/sitemirror/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links against the base URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/about">About</a>
			<a href="careers">Careers</a>
			<a href="https://www.example.org/contact">Contact</a>
		</body></html>`

		extractor := goquery.NewLinkExtractor()
		links, err := extractor.ExtractLinks(html, "https://www.example.org/products/")
		require.NoError(t, err)

		assert.Equal(t, []string{
			"https://www.example.org/about",
			"https://www.example.org/products/careers",
			"https://www.example.org/contact",
		}, links)
	})

	t.Run("keeps links to foreign hosts for the caller to filter", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="https://other.com/page">Other</a></body></html>`

		extractor := goquery.NewLinkExtractor()
		links, err := extractor.ExtractLinks(html, "https://www.example.org/")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://other.com/page"}, links)
	})

	t.Run("strips fragments and deduplicates", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/pricing#monthly">Monthly</a>
			<a href="/pricing#yearly">Yearly</a>
			<a href="/pricing">Pricing</a>
		</body></html>`

		extractor := goquery.NewLinkExtractor()
		links, err := extractor.ExtractLinks(html, "https://www.example.org/")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.example.org/pricing"}, links)
	})

	t.Run("skips javascript, mailto, tel and data links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="javascript:void(0)">JS</a>
			<a href="mailto:team@example.org">Mail</a>
			<a href="tel:+15551234567">Call</a>
			<a href="data:text/plain,hello">Data</a>
			<a href="/real">Real</a>
		</body></html>`

		extractor := goquery.NewLinkExtractor()
		links, err := extractor.ExtractLinks(html, "https://www.example.org/")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.example.org/real"}, links)
	})

	t.Run("returns EINVALID for an unparseable base URL", func(t *testing.T) {
		t.Parallel()

		extractor := goquery.NewLinkExtractor()
		_, err := extractor.ExtractLinks("<html></html>", "http://%zz")
		require.Error(t, err)
	})
}
