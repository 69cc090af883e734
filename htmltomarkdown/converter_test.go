package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Hello, world!")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<h1>Title</h1><h2>Subtitle</h2>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Subtitle")
	})

	t.Run("converts code blocks", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<pre><code>fmt.Println("hi")</code></pre>`)

		require.NoError(t, err)
		assert.Contains(t, md, `fmt.Println("hi")`)
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("   ")

		assert.Equal(t, docbase.EINVALID, docbase.ErrorCode(err))
	})

	t.Run("conversion is deterministic", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Guide</h1><p>Some <strong>bold</strong> text.</p>`
		conv := htmltomarkdown.NewConverter()

		first, err := conv.Convert(html)
		require.NoError(t, err)
		second, err := conv.Convert(html)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
