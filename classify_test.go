package docbase_test

import (
	"testing"

	"github.com/fwojciec/docbase"
	"github.com/stretchr/testify/assert"
)

func TestRuleTagger_AssignTags(t *testing.T) {
	t.Parallel()

	rules := []docbase.TagRule{
		{Tag: "api", Patterns: []string{"endpoint", "rest"}},
		{Tag: "auth", Patterns: []string{"oauth", "token"}},
		{Tag: "guide", Patterns: []string{"/guides/"}},
	}
	tagger := docbase.NewRuleTagger(rules)

	t.Run("matches body text case-insensitively", func(t *testing.T) {
		t.Parallel()

		tags := tagger.AssignTags("The REST Endpoint accepts OAuth tokens.", "docs/page.md")

		assert.Equal(t, []string{"api", "auth"}, tags)
	})

	t.Run("matches storage path", func(t *testing.T) {
		t.Parallel()

		tags := tagger.AssignTags("nothing relevant", "example.com/guides/setup.md")

		assert.Equal(t, []string{"guide"}, tags)
	})

	t.Run("no rules assigns no tags", func(t *testing.T) {
		t.Parallel()

		empty := docbase.NewRuleTagger(nil)

		assert.Empty(t, empty.AssignTags("anything", "any/path.md"))
	})
}

func TestFrequencyExtractor_ExtractKeywords(t *testing.T) {
	t.Parallel()

	t.Run("orders by descending frequency", func(t *testing.T) {
		t.Parallel()

		e := &docbase.FrequencyExtractor{Max: 2}

		keywords := e.ExtractKeywords("routing routing routing middleware middleware handler")

		assert.Equal(t, []string{"middleware", "routing"}, keywords)
	})

	t.Run("is deterministic under frequency ties", func(t *testing.T) {
		t.Parallel()

		e := &docbase.FrequencyExtractor{}
		text := "zebra apple mango zebra apple mango"

		first := e.ExtractKeywords(text)
		second := e.ExtractKeywords(text)

		assert.Equal(t, first, second)
	})

	t.Run("filters short tokens", func(t *testing.T) {
		t.Parallel()

		e := &docbase.FrequencyExtractor{}

		keywords := e.ExtractKeywords("go go go routing")

		assert.Equal(t, []string{"routing"}, keywords)
	})
}
