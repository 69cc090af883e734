package docbase

import (
	"sort"
	"strings"
)

// KeywordExtractor derives a keyword set from document text. Implementations
// are pluggable; the indexer's contract does not depend on the heuristic.
type KeywordExtractor interface {
	ExtractKeywords(text string) []string
}

// Tagger assigns topic tags by matching rules against a document's body and
// storage path.
type Tagger interface {
	AssignTags(text, path string) []string
}

// TagRule maps a tag to the substrings that trigger it. A rule matches if
// any pattern appears (case-insensitively) in the document body or path.
type TagRule struct {
	Tag      string   `yaml:"tag"`
	Patterns []string `yaml:"patterns"`
}

// RuleTagger is a rule-based Tagger over a configurable ruleset.
type RuleTagger struct {
	rules []TagRule
}

// Compile-time interface verification.
var _ Tagger = (*RuleTagger)(nil)

// NewRuleTagger creates a RuleTagger from a ruleset.
// With no rules it assigns no tags.
func NewRuleTagger(rules []TagRule) *RuleTagger {
	return &RuleTagger{rules: rules}
}

// AssignTags returns the tags whose rules match text or path, sorted.
func (t *RuleTagger) AssignTags(text, path string) []string {
	lowerText := strings.ToLower(text)
	lowerPath := strings.ToLower(path)

	var tags []string
	for _, rule := range t.rules {
		for _, pattern := range rule.Patterns {
			p := strings.ToLower(pattern)
			if p == "" {
				continue
			}
			if strings.Contains(lowerText, p) || strings.Contains(lowerPath, p) {
				tags = append(tags, rule.Tag)
				break
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// FrequencyExtractor is a KeywordExtractor that picks the most frequent
// non-stopword tokens. Frequency counting is a stand-in for the original
// NLP-based extraction; the keyword set it produces is overridable per
// document, so the heuristic is tuning, not contract.
type FrequencyExtractor struct {
	// Max is the number of keywords to return. Defaults to 10.
	Max int

	// MinLength filters out very short tokens. Defaults to 3.
	MinLength int
}

// Compile-time interface verification.
var _ KeywordExtractor = (*FrequencyExtractor)(nil)

// ExtractKeywords returns up to Max keywords ordered by descending frequency,
// with ties broken lexically so the result is deterministic.
func (e *FrequencyExtractor) ExtractKeywords(text string) []string {
	maxKeywords := e.Max
	if maxKeywords <= 0 {
		maxKeywords = 10
	}
	minLen := e.MinLength
	if minLen <= 0 {
		minLen = 3
	}

	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		if len(tok) < minLen {
			continue
		}
		counts[tok]++
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxKeywords {
		terms = terms[:maxKeywords]
	}
	sort.Strings(terms)
	return terms
}
