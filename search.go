package docbase

import "context"

// SearchService answers keyword, tag, and free-text queries over the corpus.
// Implementations derive their state from the index and stored bodies; the
// derived state is disposable and rebuilt whenever the index changes.
type SearchService interface {
	// SearchByKeywords returns documents matching the tokens, ranked.
	// The result is a superset of the documents whose keyword sets literally
	// contain a queried token.
	SearchByKeywords(ctx context.Context, tokens []string) ([]DocumentRef, error)

	// DocsByTag returns the documents carrying the tag, sorted by identifier.
	DocsByTag(ctx context.Context, tag string) ([]DocumentRef, error)

	// FindDocument tokenizes a free-text query and ranks candidates by
	// combined keyword/tag/title/body evidence. It never fails; an empty
	// result set is a valid response.
	FindDocument(ctx context.Context, query string) ([]DocumentRef, error)
}

// Posting is one (token, document, frequency) cell of the inverted cache.
type Posting struct {
	Token string
	DocID string
	Freq  int
}

// CacheStore persists the derived inverted cache. The cache is never the
// source of truth: it is always reconstructible from the index and stored
// bodies, and a corrupt or stale cache is replaced wholesale, never patched.
type CacheStore interface {
	// Version returns the index version the cache was built against,
	// or 0 if the cache is empty or unreadable.
	Version(ctx context.Context) (int64, error)

	// Replace atomically swaps in a full set of postings built against the
	// given index version.
	Replace(ctx context.Context, version int64, postings []Posting) error

	// Postings returns the postings for a token.
	Postings(ctx context.Context, token string) ([]Posting, error)

	// Tokens returns every distinct token in the cache.
	Tokens(ctx context.Context) ([]string, error)
}

// RankWeights are the scoring weights for candidate ranking. They are tuning
// parameters, not correctness properties: ordering within a weight class is
// still governed by the deterministic tie-break (fetched_at desc, then
// identifier asc).
type RankWeights struct {
	Keyword float64 // exact keyword-set match, highest
	Tag     float64 // tag match
	Title   float64 // token overlap with title
	Body    float64 // body frequency via the inverted cache, lowest
}

// DefaultRankWeights returns the default scoring weights.
func DefaultRankWeights() RankWeights {
	return RankWeights{
		Keyword: 10,
		Tag:     5,
		Title:   5,
		Body:    1,
	}
}
