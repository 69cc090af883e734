package mock

import (
	"context"

	"github.com/fwojciec/docbase"
)

var _ docbase.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of docbase.SearchService.
type SearchService struct {
	SearchByKeywordsFn func(ctx context.Context, tokens []string) ([]docbase.DocumentRef, error)
	DocsByTagFn        func(ctx context.Context, tag string) ([]docbase.DocumentRef, error)
	FindDocumentFn     func(ctx context.Context, query string) ([]docbase.DocumentRef, error)
}

func (s *SearchService) SearchByKeywords(ctx context.Context, tokens []string) ([]docbase.DocumentRef, error) {
	return s.SearchByKeywordsFn(ctx, tokens)
}

func (s *SearchService) DocsByTag(ctx context.Context, tag string) ([]docbase.DocumentRef, error) {
	return s.DocsByTagFn(ctx, tag)
}

func (s *SearchService) FindDocument(ctx context.Context, query string) ([]docbase.DocumentRef, error) {
	return s.FindDocumentFn(ctx, query)
}

var _ docbase.CacheStore = (*CacheStore)(nil)

// CacheStore is a mock implementation of docbase.CacheStore.
type CacheStore struct {
	VersionFn  func(ctx context.Context) (int64, error)
	ReplaceFn  func(ctx context.Context, version int64, postings []docbase.Posting) error
	PostingsFn func(ctx context.Context, token string) ([]docbase.Posting, error)
	TokensFn   func(ctx context.Context) ([]string, error)
}

func (c *CacheStore) Version(ctx context.Context) (int64, error) {
	return c.VersionFn(ctx)
}

func (c *CacheStore) Replace(ctx context.Context, version int64, postings []docbase.Posting) error {
	return c.ReplaceFn(ctx, version, postings)
}

func (c *CacheStore) Postings(ctx context.Context, token string) ([]docbase.Posting, error) {
	return c.PostingsFn(ctx, token)
}

func (c *CacheStore) Tokens(ctx context.Context) ([]string, error) {
	return c.TokensFn(ctx)
}

var _ docbase.DriftService = (*DriftService)(nil)

// DriftService is a mock implementation of docbase.DriftService.
type DriftService struct {
	DetectFn  func(ctx context.Context, scope string) ([]docbase.DriftRecord, error)
	CleanupFn func(ctx context.Context, records []docbase.DriftRecord) (*docbase.CleanupSummary, error)
}

func (s *DriftService) Detect(ctx context.Context, scope string) ([]docbase.DriftRecord, error) {
	return s.DetectFn(ctx, scope)
}

func (s *DriftService) Cleanup(ctx context.Context, records []docbase.DriftRecord) (*docbase.CleanupSummary, error) {
	return s.CleanupFn(ctx, records)
}
