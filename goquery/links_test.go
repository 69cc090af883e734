package goquery_test

import (
	"testing"

	"github.com/fwojciec/docbase/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractManifestLinks(t *testing.T) {
	t.Parallel()

	t.Run("extracts anchors in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/docs/a">Doc A</a>
<a href="https://other.org/b">Doc B</a>
</body></html>`

		entries, err := goquery.ExtractManifestLinks(html, "https://example.com/index")

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Doc A", entries[0].Title)
		assert.Equal(t, "https://example.com/docs/a", entries[0].URL)
		assert.Equal(t, "https://other.org/b", entries[1].URL)
	})

	t.Run("skips non-HTTP links and fragments", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="#section">Anchor</a>
<a href="mailto:x@example.com">Mail</a>
<a href="javascript:void(0)">JS</a>
<a href="/real">Real</a>
</body></html>`

		entries, err := goquery.ExtractManifestLinks(html, "https://example.com")

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "https://example.com/real", entries[0].URL)
	})

	t.Run("deduplicates by resolved URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/page">First</a>
<a href="/page#top">Same page</a>
</body></html>`

		entries, err := goquery.ExtractManifestLinks(html, "https://example.com")

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "First", entries[0].Title)
	})
}
