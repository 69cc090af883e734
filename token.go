package docbase

import (
	"regexp"
	"strings"
)

// tokenRe matches word-like runs of letters or digits, keeping intra-word
// apostrophes and hyphens (e.g. "doesn't", "rate-limit").
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*`)

// Tokenize lowercases text and splits it into normalized tokens, dropping
// stopwords. The same tokenizer is used for indexing and for queries so the
// two always agree.
func Tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// stopwords are excluded from tokenization. The set is intentionally small:
// only high-frequency English function words that carry no retrieval signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "from": {}, "has": {},
	"have": {}, "how": {}, "if": {}, "in": {}, "is": {}, "it": {},
	"its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "will": {}, "with": {}, "you": {}, "your": {},
}
