package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content and title", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Docs</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Getting Started</h1>
<p>This is the main content of the documentation page, with enough text
for the extractor to recognize it as the article body rather than
boilerplate chrome around it.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "main content of the documentation page")
		assert.NotContains(t, result.ContentHTML, "Navigation here")
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("")

		assert.Equal(t, docbase.EINVALID, docbase.ErrorCode(err))
	})
}
