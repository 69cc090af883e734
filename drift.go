package docbase

import "context"

// Verdict is the outcome of comparing a stored document against its source.
type Verdict string

// Drift verdicts.
const (
	VerdictUnchanged   Verdict = "unchanged"
	VerdictChanged     Verdict = "changed"
	VerdictUnreachable Verdict = "unreachable"
)

// DriftRecord is the transient comparison result for one document during a
// drift pass. It is consumed once by cleanup and not persisted.
type DriftRecord struct {
	ID         string  `json:"id"`
	StoredHash string  `json:"storedHash"`
	FreshHash  string  `json:"freshHash,omitempty"`
	Verdict    Verdict `json:"verdict"`

	// FreshBody carries the re-fetched normalized body for changed
	// documents so cleanup can re-store without a second fetch.
	FreshBody string `json:"-"`

	// Title from the fresh fetch, if any.
	Title string `json:"-"`
}

// Removal records one document removed by cleanup, with its prior hash for
// auditability.
type Removal struct {
	ID        string `json:"id"`
	PriorHash string `json:"priorHash"`
}

// CleanupSummary reports what a cleanup pass did.
type CleanupSummary struct {
	Updated   int       `json:"updated"`
	Unchanged int       `json:"unchanged"`
	Deferred  int       `json:"deferred"` // unreachable but below removal threshold
	Removed   []Removal `json:"removed"`
}

// ScopeAll asks the drift detector to check every indexed document.
const ScopeAll = "all"

// DriftService detects and repairs divergence between stored documents and
// their upstream sources.
type DriftService interface {
	// Detect re-fetches the scoped source(s) and returns one DriftRecord per
	// document. Scope is a single identifier or ScopeAll.
	Detect(ctx context.Context, scope string) ([]DriftRecord, error)

	// Cleanup applies the verdicts: changed documents are re-stored and
	// re-indexed through the indexer path; unreachable documents are removed
	// only after a configured number of consecutive unreachable verdicts.
	Cleanup(ctx context.Context, records []DriftRecord) (*CleanupSummary, error)
}
