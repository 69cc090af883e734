package docbase_test

import (
	"testing"

	"github.com/fwojciec/docbase"
	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	t.Run("lowercases and splits on punctuation", func(t *testing.T) {
		t.Parallel()

		tokens := docbase.Tokenize("HTTP Routing, Middleware!")

		assert.Equal(t, []string{"http", "routing", "middleware"}, tokens)
	})

	t.Run("drops stopwords", func(t *testing.T) {
		t.Parallel()

		tokens := docbase.Tokenize("the quick fox is in a box")

		assert.Equal(t, []string{"quick", "fox", "box"}, tokens)
	})

	t.Run("keeps intra-word hyphens and apostrophes", func(t *testing.T) {
		t.Parallel()

		tokens := docbase.Tokenize("rate-limit doesn't")

		assert.Equal(t, []string{"rate-limit", "doesn't"}, tokens)
	})

	t.Run("empty input yields no tokens", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docbase.Tokenize(""))
	})
}
