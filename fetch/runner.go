// Package fetch orchestrates the manifest-driven fetch pipeline: rate-limited
// retrieval, content extraction, markdown conversion, canonical storage, and
// index upserts, in manifest order.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docbase"
	"github.com/google/uuid"
)

// Status is the per-item outcome of a fetch batch.
type Status string

// Per-item outcomes. No single failing URL aborts a batch; every item ends
// in exactly one of these states.
const (
	StatusSaved   Status = "saved"
	StatusSkipped Status = "skipped" // upstream permanently absent, expected
	StatusFailed  Status = "failed"  // retries exhausted or processing error
)

// Outcome records what happened to one manifest entry.
type Outcome struct {
	URL    string `json:"url"`
	ID     string `json:"id,omitempty"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report holds the outcome of a fetch batch.
type Report struct {
	BatchID  string    `json:"batchId"`
	Outcomes []Outcome `json:"outcomes"`
	Saved    int       `json:"saved"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
}

// ProgressEvent reports progress during a fetch batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting fetch progress.
type ProgressFunc func(event ProgressEvent)

// Runner executes manifest fetch batches. Documents are processed strictly
// in manifest order; each document's store write and index upsert complete
// before the next begins, so an interrupted batch leaves committed documents
// intact and resumes from the next unprocessed URL.
type Runner struct {
	Fetcher     docbase.Fetcher
	Extractors  []docbase.Extractor // tried in order until one succeeds
	Converter   docbase.Converter
	Store       docbase.Store
	Index       docbase.IndexService
	Keywords    docbase.KeywordExtractor
	Tagger      docbase.Tagger
	Limiter     *Limiter
	RetryDelays []time.Duration
	Logger      *slog.Logger

	// Now supplies timestamps; defaults to time.Now. Overridable in tests.
	Now func() time.Time
}

// Run fetches every manifest entry and returns the per-item outcome report.
// A canceled context stops the batch between documents; the report covers
// what was processed and the context error is returned alongside it.
func (r *Runner) Run(ctx context.Context, manifest *docbase.Manifest, progress ProgressFunc) (*Report, error) {
	report := &Report{BatchID: uuid.New().String()}
	total := len(manifest.Entries)

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	for i, entry := range manifest.Entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome := r.processEntry(ctx, manifest.Origin, entry)
		report.Outcomes = append(report.Outcomes, outcome)

		switch outcome.Status {
		case StatusSaved:
			report.Saved++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: total, URL: entry.URL})
			}
		case StatusSkipped:
			report.Skipped++
			logger.Info("upstream gone, skipping", "url", entry.URL)
			if progress != nil {
				progress(ProgressEvent{Type: ProgressSkipped, Completed: i + 1, Total: total, URL: entry.URL})
			}
		case StatusFailed:
			report.Failed++
			logger.Warn("fetch item failed", "url", entry.URL, "err", outcome.Error)
			if progress != nil {
				progress(ProgressEvent{
					Type: ProgressFailed, Completed: i + 1, Total: total,
					URL: entry.URL, Error: fmt.Errorf("%s", outcome.Error),
				})
			}
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return report, nil
}

// processEntry runs the full pipeline for a single manifest entry. The
// store write and index upsert are transactionally complete before return;
// there is no cross-document transaction.
func (r *Runner) processEntry(ctx context.Context, origin string, entry docbase.ManifestEntry) Outcome {
	outcome := Outcome{URL: entry.URL, ID: docbase.DeriveID(entry.URL)}

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			outcome.Status = StatusFailed
			outcome.Error = err.Error()
			return outcome
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, entry.URL, r.Fetcher.Fetch, nil, delays)
	if err != nil {
		if docbase.ErrorCode(err) == docbase.EGONE {
			outcome.Status = StatusSkipped
			outcome.Error = docbase.ErrorMessage(err)
		} else {
			outcome.Status = StatusFailed
			outcome.Error = docbase.ErrorMessage(err)
		}
		return outcome
	}

	extracted, err := r.extract(html)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Error = docbase.ErrorMessage(err)
		return outcome
	}

	markdown, err := r.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Error = docbase.ErrorMessage(err)
		return outcome
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	// Manifest titles are authoritative display metadata; the extracted
	// title fills in when the manifest carries none.
	title := entry.Title
	if title == "" {
		title = extracted.Title
	}

	doc := &docbase.Document{
		ID:              docbase.DeriveID(entry.URL),
		SourceURL:       entry.URL,
		Title:           title,
		ContentHash:     docbase.HashContent(markdown),
		FetchedAt:       now().UTC(),
		Origin:          origin,
		RetrievalMethod: "http",
	}
	doc.Domain, doc.Category = docbase.ClassifyURL(entry.URL)
	if r.Keywords != nil {
		doc.Keywords = r.Keywords.ExtractKeywords(markdown)
	}

	// An identifier collision must surface before the store is touched, so
	// the existing document's body survives intact.
	if existing, err := r.Index.FindByID(ctx, doc.ID); err == nil {
		if existing.SourceURL != entry.URL {
			outcome.Status = StatusFailed
			outcome.Error = docbase.ErrorMessage(docbase.Errorf(docbase.ECONFLICT,
				"identifier %q derived from both %q and %q", doc.ID, existing.SourceURL, entry.URL))
			return outcome
		}
	} else if docbase.ErrorCode(err) != docbase.ENOTFOUND {
		outcome.Status = StatusFailed
		outcome.Error = docbase.ErrorMessage(err)
		return outcome
	}

	storagePath, err := r.Store.WriteBody(ctx, doc, markdown)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Error = docbase.ErrorMessage(err)
		return outcome
	}
	doc.StoragePath = storagePath

	if r.Tagger != nil {
		doc.Tags = r.Tagger.AssignTags(markdown, storagePath)
	}

	if err := r.Index.Upsert(ctx, doc); err != nil {
		outcome.Status = StatusFailed
		outcome.Error = docbase.ErrorMessage(err)
		return outcome
	}

	outcome.Status = StatusSaved
	return outcome
}

// extract tries each configured extractor in order.
func (r *Runner) extract(html string) (*docbase.ExtractResult, error) {
	var lastErr error
	for _, ex := range r.Extractors {
		result, err := ex.Extract(html)
		if err != nil {
			lastErr = err
			continue
		}
		if result.ContentHTML != "" {
			return result, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, docbase.Errorf(docbase.EINTERNAL, "no extractor produced content")
}
