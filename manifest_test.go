package docbase_test

import (
	"testing"

	"github.com/fwojciec/docbase"
	"github.com/stretchr/testify/assert"
)

func TestParseManifest(t *testing.T) {
	t.Parallel()

	t.Run("extracts titled links in order", func(t *testing.T) {
		t.Parallel()

		text := `- [Intro](https://example.com/intro)
- [Setup](https://example.com/setup)`

		entries, skipped := docbase.ParseManifest(text)

		assert.Empty(t, skipped)
		assert.Equal(t, []docbase.ManifestEntry{
			{Title: "Intro", URL: "https://example.com/intro"},
			{Title: "Setup", URL: "https://example.com/setup"},
		}, entries)
	})

	t.Run("skips malformed lines without failing", func(t *testing.T) {
		t.Parallel()

		text := `[Good](https://example.com/good)
not a link at all
[Broken](ftp://example.com/bad)`

		entries, skipped := docbase.ParseManifest(text)

		assert.Len(t, entries, 1)
		assert.Equal(t, "https://example.com/good", entries[0].URL)
		assert.Len(t, skipped, 2)
	})

	t.Run("ignores comment lines and blanks", func(t *testing.T) {
		t.Parallel()

		text := `# A heading comment

[Doc](https://example.com/doc)`

		entries, skipped := docbase.ParseManifest(text)

		assert.Empty(t, skipped)
		assert.Len(t, entries, 1)
	})

	t.Run("keeps first occurrence of duplicate URLs", func(t *testing.T) {
		t.Parallel()

		text := `[First](https://example.com/page)
[Second](https://example.com/page)`

		entries, _ := docbase.ParseManifest(text)

		assert.Len(t, entries, 1)
		assert.Equal(t, "First", entries[0].Title)
	})

	t.Run("empty input yields no entries", func(t *testing.T) {
		t.Parallel()

		entries, skipped := docbase.ParseManifest("")

		assert.Empty(t, entries)
		assert.Empty(t, skipped)
	})
}
