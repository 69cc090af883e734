package docbase

import "context"

// ResolvedDocument is a document body plus display metadata, as returned by
// the resolution API. Storage paths are deliberately absent.
type ResolvedDocument struct {
	ID          string   `json:"id"`
	SourceURL   string   `json:"sourceUrl"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ContentHash string   `json:"contentHash"`
	Body        string   `json:"body"`
}

// Resolver is the only interface external callers use. It exposes identifier
// resolution, section extraction, tag/keyword queries, free-text lookup, and
// drift operations; never raw storage paths.
type Resolver interface {
	SearchService
	DriftService

	// ResolveDocID returns the body and metadata for an identifier.
	// Returns ENOTFOUND if the identifier is absent from the index, or
	// ESTALE if the referenced storage path is missing or the stored body
	// no longer matches the indexed content hash.
	ResolveDocID(ctx context.Context, id string) (*ResolvedDocument, error)

	// GetDocumentSection extracts the section of a document matching a
	// heading, using the exact → prefix → fuzzy fallback chain.
	// Returns ESECTION if no heading matches.
	GetDocumentSection(ctx context.Context, id, heading string) (string, error)
}
