// Package search implements keyword, tag, and free-text search over the
// corpus. Its inverted cache is derived state: lazily rebuilt from the index
// and stored bodies whenever the index version moves, and entirely
// disposable.
package search

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/bloom"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ docbase.SearchService = (*Engine)(nil)

// Cache sizing for the token Bloom filter.
const (
	bloomExpectedTokens    = 100000
	bloomFalsePositiveRate = 0.01
)

// rebuildConcurrency bounds how many bodies are tokenized at once during a
// cache rebuild.
const rebuildConcurrency = 8

// Engine answers search queries against the index and the inverted cache.
// It is safe for concurrent use: queries never mutate shared state except
// through the guarded cache rebuild.
type Engine struct {
	Index   docbase.IndexService
	Store   docbase.Store
	Cache   docbase.CacheStore
	Weights docbase.RankWeights
	Logger  *slog.Logger

	// rebuildMu serializes cache rebuilds and guards the token filter.
	rebuildMu sync.Mutex
	tokens    *bloom.Filter
	tokensVer int64
}

// NewEngine creates an Engine with default weights and a discarding logger.
func NewEngine(index docbase.IndexService, store docbase.Store, cache docbase.CacheStore) *Engine {
	return &Engine{
		Index:   index,
		Store:   store,
		Cache:   cache,
		Weights: docbase.DefaultRankWeights(),
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// SearchByKeywords returns documents matching the tokens, ranked by the
// documented weights with the deterministic tie-break. The result is a
// superset of the documents whose keyword sets literally contain a queried
// token.
func (e *Engine) SearchByKeywords(ctx context.Context, tokens []string) ([]docbase.DocumentRef, error) {
	normalized := normalizeTokens(tokens)
	if len(normalized) == 0 {
		return nil, nil
	}

	if err := e.ensureFresh(ctx); err != nil {
		return nil, err
	}

	return e.rank(ctx, normalized, true)
}

// DocsByTag returns the documents carrying the tag, sorted by identifier.
func (e *Engine) DocsByTag(ctx context.Context, tag string) ([]docbase.DocumentRef, error) {
	docs, err := e.Index.All(ctx)
	if err != nil {
		return nil, err
	}

	var refs []docbase.DocumentRef
	for _, doc := range docs {
		if doc.HasTag(tag) {
			refs = append(refs, doc.Ref())
		}
	}
	return refs, nil
}

// FindDocument tokenizes a free-text query and ranks candidates by combined
// keyword/tag/title/body evidence. It never fails: an unusable cache
// degrades to metadata-only scoring, and an empty result set is a valid
// response.
func (e *Engine) FindDocument(ctx context.Context, query string) ([]docbase.DocumentRef, error) {
	tokens := docbase.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	useCache := true
	if err := e.ensureFresh(ctx); err != nil {
		e.Logger.Warn("inverted cache unavailable, using metadata-only ranking", "err", err)
		useCache = false
	}

	refs, err := e.rank(ctx, tokens, useCache)
	if err != nil {
		e.Logger.Warn("ranked lookup failed, returning empty result", "err", err)
		return nil, nil
	}
	return refs, nil
}

// rank scores every candidate matching at least one token and returns them
// ordered by score, then most-recent fetched_at, then identifier.
func (e *Engine) rank(ctx context.Context, tokens []string, useCache bool) ([]docbase.DocumentRef, error) {
	docs, err := e.Index.All(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*docbase.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	// Body evidence from the inverted cache, Bloom-gated per token.
	bodyFreq := make(map[string]map[string]int) // doc id → token → freq
	if useCache {
		for _, token := range tokens {
			if !e.mightContain(token) {
				continue
			}
			postings, err := e.Cache.Postings(ctx, token)
			if err != nil {
				return nil, err
			}
			for _, p := range postings {
				if bodyFreq[p.DocID] == nil {
					bodyFreq[p.DocID] = make(map[string]int)
				}
				bodyFreq[p.DocID][token] = p.Freq
			}
		}
	}

	scores := make(map[string]float64)
	for _, doc := range docs {
		titleTokens := tokenSet(docbase.Tokenize(doc.Title))
		var score float64
		for _, token := range tokens {
			if doc.HasKeyword(token) {
				score += e.Weights.Keyword
			}
			if doc.HasTag(token) {
				score += e.Weights.Tag
			}
			if titleTokens[token] {
				score += e.Weights.Title
			}
			if freq := bodyFreq[doc.ID][token]; freq > 0 {
				score += e.Weights.Body * math.Log1p(float64(freq))
			}
		}
		if score > 0 {
			scores[doc.ID] = score
		}
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := byID[ids[i]], byID[ids[j]]
		if scores[a.ID] != scores[b.ID] {
			return scores[a.ID] > scores[b.ID]
		}
		if !a.FetchedAt.Equal(b.FetchedAt) {
			return a.FetchedAt.After(b.FetchedAt)
		}
		return a.ID < b.ID
	})

	refs := make([]docbase.DocumentRef, 0, len(ids))
	for _, id := range ids {
		ref := byID[id].Ref()
		ref.Score = scores[id]
		refs = append(refs, ref)
	}
	return refs, nil
}

// ensureFresh rebuilds the inverted cache if it is missing or older than the
// index's last-modified marker, and reseeds the token Bloom filter.
func (e *Engine) ensureFresh(ctx context.Context) error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	indexVer, err := e.Index.Version(ctx)
	if err != nil {
		return err
	}

	cacheVer, err := e.Cache.Version(ctx)
	if err != nil {
		// A cache that cannot even report its version is rebuilt, not
		// patched.
		e.Logger.Warn("unreadable cache version, rebuilding", "err", err)
		cacheVer = -1
	}

	if cacheVer != indexVer {
		if err := e.rebuild(ctx, indexVer); err != nil {
			return err
		}
		cacheVer = indexVer
	}

	if e.tokens == nil || e.tokensVer != cacheVer {
		if err := e.seedBloom(ctx, cacheVer); err != nil {
			return err
		}
	}
	return nil
}

// rebuild reconstructs the full posting set from the index and stored
// bodies and swaps it into the cache.
func (e *Engine) rebuild(ctx context.Context, version int64) error {
	docs, err := e.Index.All(ctx)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	freqs := make(map[string]map[string]int, len(docs)) // doc id → token → freq

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)

	for _, doc := range docs {
		g.Go(func() error {
			tf := make(map[string]int)

			// Metadata tokens guarantee the cache alone can answer
			// which documents contain a token.
			for _, source := range [][]string{doc.Keywords, doc.Tags, docbase.Tokenize(doc.Title)} {
				for _, raw := range source {
					for _, tok := range docbase.Tokenize(raw) {
						if tf[tok] == 0 {
							tf[tok] = 1
						}
					}
				}
			}

			_, body, err := e.Store.ReadBody(gctx, doc.StoragePath)
			if err != nil {
				// A missing body is an index/store inconsistency reported
				// elsewhere; the cache indexes what it can read.
				e.Logger.Warn("skipping unreadable body during cache rebuild",
					"id", doc.ID, "err", err)
			} else {
				for _, tok := range docbase.Tokenize(body) {
					tf[tok]++
				}
			}

			mu.Lock()
			freqs[doc.ID] = tf
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Deterministic posting order regardless of tokenization order.
	var postings []docbase.Posting
	for id, tf := range freqs {
		for tok, freq := range tf {
			postings = append(postings, docbase.Posting{Token: tok, DocID: id, Freq: freq})
		}
	}
	sort.Slice(postings, func(i, j int) bool {
		if postings[i].Token != postings[j].Token {
			return postings[i].Token < postings[j].Token
		}
		return postings[i].DocID < postings[j].DocID
	})

	if err := e.Cache.Replace(ctx, version, postings); err != nil {
		return err
	}
	e.Logger.Info("inverted cache rebuilt", "documents", len(docs), "postings", len(postings))
	return nil
}

// seedBloom loads the cache's token set into the Bloom filter.
// Caller holds rebuildMu.
func (e *Engine) seedBloom(ctx context.Context, version int64) error {
	tokens, err := e.Cache.Tokens(ctx)
	if err != nil {
		return err
	}
	filter := bloom.NewFilter(bloomExpectedTokens, bloomFalsePositiveRate)
	for _, tok := range tokens {
		filter.Add(tok)
	}
	e.tokens = filter
	e.tokensVer = version
	return nil
}

// mightContain consults the Bloom filter; a nil filter admits everything.
func (e *Engine) mightContain(token string) bool {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()
	if e.tokens == nil {
		return true
	}
	return e.tokens.Test(token)
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
