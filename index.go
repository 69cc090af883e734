package docbase

import "context"

// IndexService maintains the structured mapping from identifier to document
// metadata. It is the only component allowed to mutate the index; readers
// load the last fully-written snapshot and never block on the write lock.
type IndexService interface {
	// Upsert creates or refreshes the entry for doc. All mutations acquire
	// an exclusive lock around the read-modify-write cycle; a lock that
	// cannot be acquired within the configured timeout returns ELOCKED.
	//
	// Upsert returns ECONFLICT if the derived identifier is already held by
	// a different source URL. Re-indexing a document whose content hash is
	// unchanged refreshes only the fetched_at timestamp.
	Upsert(ctx context.Context, doc *Document) error

	// FindByID retrieves a document's metadata by identifier.
	// Returns ENOTFOUND if the identifier is absent.
	FindByID(ctx context.Context, id string) (*Document, error)

	// All returns every well-formed index entry, sorted by identifier.
	// Quarantined (malformed) entries are excluded.
	All(ctx context.Context) ([]*Document, error)

	// Delete removes an entry. Returns ENOTFOUND if the identifier is absent.
	// Deletions are explicit; nothing is removed implicitly.
	Delete(ctx context.Context, id string) error

	// RecordMiss increments the consecutive-unreachable counter for an entry
	// and returns the new count. Upsert resets the counter on any successful
	// fetch. Returns ENOTFOUND if the identifier is absent.
	RecordMiss(ctx context.Context, id string) (int, error)

	// Version returns a marker that changes whenever the index is mutated.
	// Derived caches compare against it to decide whether to rebuild.
	Version(ctx context.Context) (int64, error)
}

// Store persists normalized document bodies in the canonical store, one file
// per document, each prefixed with a front matter metadata block.
type Store interface {
	// WriteBody stores the normalized body for doc and returns the storage
	// path relative to the storage root. Writes are atomic (temp + rename).
	WriteBody(ctx context.Context, doc *Document, body string) (string, error)

	// ReadBody loads a stored body and its front matter metadata.
	// Returns ENOTFOUND if no file exists at the storage path.
	ReadBody(ctx context.Context, storagePath string) (*Document, string, error)

	// RemoveBody deletes a stored body.
	RemoveBody(ctx context.Context, storagePath string) error

	// ListBodies returns the storage paths of all stored bodies.
	// Used by consistency checks and index rebuilds.
	ListBodies(ctx context.Context) ([]string, error)
}
