// Package drift detects and repairs divergence between stored documents and
// their upstream sources.
package drift

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/fetch"
)

// DefaultRemovalThreshold is how many consecutive unreachable verdicts a
// document must accumulate before cleanup removes it. One transient outage
// never deletes anything.
const DefaultRemovalThreshold = 3

// Compile-time interface verification.
var _ docbase.DriftService = (*Detector)(nil)

// Detector re-fetches sources through the same rate-limited path as the
// fetch pipeline and compares fresh fingerprints against stored ones.
// Corrective updates route back through the indexer so the index and the
// derived cache stay consistent.
type Detector struct {
	Fetcher     docbase.Fetcher
	Extractors  []docbase.Extractor
	Converter   docbase.Converter
	Store       docbase.Store
	Index       docbase.IndexService
	Keywords    docbase.KeywordExtractor
	Tagger      docbase.Tagger
	Limiter     *fetch.Limiter
	RetryDelays []time.Duration

	// RemovalThreshold overrides DefaultRemovalThreshold when positive.
	RemovalThreshold int

	Logger *slog.Logger

	// Now supplies timestamps; defaults to time.Now. Overridable in tests.
	Now func() time.Time
}

// Detect re-fetches the scoped source(s) and returns one DriftRecord per
// document. Scope is a single identifier or docbase.ScopeAll.
func (d *Detector) Detect(ctx context.Context, scope string) ([]docbase.DriftRecord, error) {
	var docs []*docbase.Document
	if scope == docbase.ScopeAll {
		all, err := d.Index.All(ctx)
		if err != nil {
			return nil, err
		}
		docs = all
	} else {
		doc, err := d.Index.FindByID(ctx, scope)
		if err != nil {
			return nil, err
		}
		docs = []*docbase.Document{doc}
	}

	records := make([]docbase.DriftRecord, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		records = append(records, d.check(ctx, doc))
	}
	return records, nil
}

// check computes the drift verdict for one document.
func (d *Detector) check(ctx context.Context, doc *docbase.Document) docbase.DriftRecord {
	record := docbase.DriftRecord{
		ID:         doc.ID,
		StoredHash: doc.ContentHash,
	}

	if d.Limiter != nil {
		if err := d.Limiter.Wait(ctx); err != nil {
			record.Verdict = docbase.VerdictUnreachable
			return record
		}
	}

	delays := d.RetryDelays
	if delays == nil {
		delays = fetch.DefaultRetryDelays()
	}
	html, err := fetch.FetchWithRetryDelays(ctx, doc.SourceURL, d.Fetcher.Fetch, nil, delays)
	if err != nil {
		record.Verdict = docbase.VerdictUnreachable
		return record
	}

	markdown, title, err := d.normalize(html)
	if err != nil {
		record.Verdict = docbase.VerdictUnreachable
		return record
	}

	record.FreshHash = docbase.HashContent(markdown)
	if record.FreshHash == doc.ContentHash {
		record.Verdict = docbase.VerdictUnchanged
		return record
	}

	record.Verdict = docbase.VerdictChanged
	record.FreshBody = markdown
	record.Title = title
	return record
}

// Cleanup applies drift verdicts. Per-document state machine: unchecked →
// checked(unchanged) | checked(changed) → updated, or unchecked →
// checked(unreachable) → removed once the consecutive-miss threshold is
// reached.
func (d *Detector) Cleanup(ctx context.Context, records []docbase.DriftRecord) (*docbase.CleanupSummary, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	threshold := d.RemovalThreshold
	if threshold <= 0 {
		threshold = DefaultRemovalThreshold
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	summary := &docbase.CleanupSummary{}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		switch record.Verdict {
		case docbase.VerdictUnchanged:
			// A successful unchanged check still refreshes fetched_at and
			// clears the miss counter.
			doc, err := d.Index.FindByID(ctx, record.ID)
			if err != nil {
				return summary, err
			}
			doc.FetchedAt = now().UTC()
			if err := d.Index.Upsert(ctx, doc); err != nil {
				return summary, err
			}
			summary.Unchanged++

		case docbase.VerdictChanged:
			if err := d.applyUpdate(ctx, record, now().UTC()); err != nil {
				return summary, err
			}
			logger.Info("drifted document updated",
				"id", record.ID,
				"prior_hash", record.StoredHash,
				"new_hash", record.FreshHash,
			)
			summary.Updated++

		case docbase.VerdictUnreachable:
			misses, err := d.Index.RecordMiss(ctx, record.ID)
			if err != nil {
				if docbase.ErrorCode(err) == docbase.ENOTFOUND {
					continue
				}
				return summary, err
			}
			if misses < threshold {
				summary.Deferred++
				continue
			}

			if err := d.remove(ctx, record.ID); err != nil {
				return summary, err
			}
			logger.Info("unreachable document removed",
				"id", record.ID,
				"prior_hash", record.StoredHash,
				"consecutive_misses", misses,
			)
			summary.Removed = append(summary.Removed, docbase.Removal{
				ID:        record.ID,
				PriorHash: record.StoredHash,
			})
		}
	}

	return summary, nil
}

// applyUpdate re-stores and re-indexes a changed document through the same
// path the fetch pipeline uses.
func (d *Detector) applyUpdate(ctx context.Context, record docbase.DriftRecord, fetchedAt time.Time) error {
	doc, err := d.Index.FindByID(ctx, record.ID)
	if err != nil {
		return err
	}

	doc.ContentHash = record.FreshHash
	doc.FetchedAt = fetchedAt
	if record.Title != "" {
		doc.Title = record.Title
	}
	if d.Keywords != nil {
		doc.Keywords = d.Keywords.ExtractKeywords(record.FreshBody)
	}

	storagePath, err := d.Store.WriteBody(ctx, doc, record.FreshBody)
	if err != nil {
		return err
	}
	doc.StoragePath = storagePath

	if d.Tagger != nil {
		doc.Tags = d.Tagger.AssignTags(record.FreshBody, storagePath)
	}

	return d.Index.Upsert(ctx, doc)
}

// remove deletes a document from the index and the canonical store.
// A body already gone from the store is tolerated; the index entry is
// authoritative for membership.
func (d *Detector) remove(ctx context.Context, id string) error {
	doc, err := d.Index.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := d.Index.Delete(ctx, id); err != nil {
		return err
	}
	if err := d.Store.RemoveBody(ctx, doc.StoragePath); err != nil {
		if docbase.ErrorCode(err) != docbase.ENOTFOUND {
			return err
		}
	}
	return nil
}

// normalize runs the extractor chain and converter over fetched HTML.
func (d *Detector) normalize(html string) (markdown, title string, err error) {
	var extracted *docbase.ExtractResult
	var lastErr error
	for _, ex := range d.Extractors {
		result, err := ex.Extract(html)
		if err != nil {
			lastErr = err
			continue
		}
		if result.ContentHTML != "" {
			extracted = result
			break
		}
	}
	if extracted == nil {
		if lastErr != nil {
			return "", "", lastErr
		}
		return "", "", docbase.Errorf(docbase.EINTERNAL, "no extractor produced content")
	}

	markdown, err = d.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return "", "", err
	}
	return markdown, extracted.Title, nil
}
