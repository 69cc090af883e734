// Package resolve implements the outward-facing resolution API. Callers get
// document bodies, sections, and query results by identifier; storage layout
// never leaks through this surface.
package resolve

import (
	"context"

	"github.com/fwojciec/docbase"
)

// Compile-time interface verification.
var _ docbase.Resolver = (*Resolver)(nil)

// Resolver composes the index, store, search engine, and drift detector
// behind the docbase.Resolver interface.
type Resolver struct {
	Index  docbase.IndexService
	Store  docbase.Store
	Search docbase.SearchService
	Drift  docbase.DriftService
}

// ResolveDocID returns the body and metadata for an identifier. The stored
// body is verified against the indexed content hash on every read; a
// mismatch or a missing body file surfaces as ESTALE rather than silently
// serving divergent content.
func (r *Resolver) ResolveDocID(ctx context.Context, id string) (*docbase.ResolvedDocument, error) {
	doc, err := r.Index.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_, body, err := r.Store.ReadBody(ctx, doc.StoragePath)
	if err != nil {
		if docbase.ErrorCode(err) == docbase.ENOTFOUND {
			return nil, docbase.Errorf(docbase.ESTALE, "Stored body for %q is missing; run a fetch or cleanup to repair.", id)
		}
		return nil, err
	}

	if doc.ContentHash != "" && docbase.HashContent(body) != doc.ContentHash {
		return nil, docbase.Errorf(docbase.ESTALE, "Stored body for %q no longer matches its indexed fingerprint; run a fetch or cleanup to repair.", id)
	}

	return &docbase.ResolvedDocument{
		ID:          doc.ID,
		SourceURL:   doc.SourceURL,
		Title:       doc.Title,
		Description: doc.Description,
		Keywords:    doc.Keywords,
		Tags:        doc.Tags,
		ContentHash: doc.ContentHash,
		Body:        body,
	}, nil
}

// GetDocumentSection resolves the document and extracts the section whose
// heading matches, exactly or by the prefix/fuzzy fallback chain.
func (r *Resolver) GetDocumentSection(ctx context.Context, id, heading string) (string, error) {
	resolved, err := r.ResolveDocID(ctx, id)
	if err != nil {
		return "", err
	}
	return docbase.FindSection(resolved.Body, heading)
}

// SearchByKeywords delegates to the search engine.
func (r *Resolver) SearchByKeywords(ctx context.Context, tokens []string) ([]docbase.DocumentRef, error) {
	return r.Search.SearchByKeywords(ctx, tokens)
}

// DocsByTag delegates to the search engine.
func (r *Resolver) DocsByTag(ctx context.Context, tag string) ([]docbase.DocumentRef, error) {
	return r.Search.DocsByTag(ctx, tag)
}

// FindDocument delegates to the search engine.
func (r *Resolver) FindDocument(ctx context.Context, query string) ([]docbase.DocumentRef, error) {
	return r.Search.FindDocument(ctx, query)
}

// Detect delegates to the drift detector.
func (r *Resolver) Detect(ctx context.Context, scope string) ([]docbase.DriftRecord, error) {
	return r.Drift.Detect(ctx, scope)
}

// Cleanup delegates to the drift detector.
func (r *Resolver) Cleanup(ctx context.Context, records []docbase.DriftRecord) (*docbase.CleanupSummary, error) {
	return r.Drift.Cleanup(ctx, records)
}
