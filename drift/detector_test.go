package drift_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/drift"
	"github.com/fwojciec/docbase/fs"
	"github.com/fwojciec/docbase/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkedAt = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

// harness wires a detector over real file-based index/store with a mock
// fetch pipeline that serves upstream from a map.
type harness struct {
	index    *fs.Index
	store    *fs.Store
	detector *drift.Detector
	upstream map[string]string // url → body; absent means unreachable
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	h := &harness{
		index:    fs.NewIndex(root),
		store:    fs.NewStore(root),
		upstream: make(map[string]string),
	}
	h.detector = &drift.Detector{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				body, ok := h.upstream[url]
				if !ok {
					return "", docbase.Errorf(docbase.EUNAVAILABLE, "upstream down")
				}
				return body, nil
			},
		},
		Extractors: []docbase.Extractor{&mock.Extractor{
			ExtractFn: func(html string) (*docbase.ExtractResult, error) {
				return &docbase.ExtractResult{Title: "Fresh Title", ContentHTML: html}, nil
			},
		}},
		Converter: &mock.Converter{
			ConvertFn: func(html string) (string, error) { return html, nil },
		},
		Store:       h.store,
		Index:       h.index,
		RetryDelays: []time.Duration{time.Millisecond},
		Now:         func() time.Time { return checkedAt },
	}
	return h
}

// seed stores and indexes a document whose body is currently content.
func (h *harness) seed(t *testing.T, url, content string) *docbase.Document {
	t.Helper()
	ctx := context.Background()

	doc := &docbase.Document{
		ID:          docbase.DeriveID(url),
		SourceURL:   url,
		Title:       "Stored Title",
		ContentHash: docbase.HashContent(content),
		FetchedAt:   checkedAt.Add(-24 * time.Hour),
	}
	relPath, err := h.store.WriteBody(ctx, doc, content)
	require.NoError(t, err)
	doc.StoragePath = relPath
	require.NoError(t, h.index.Upsert(ctx, doc))
	return doc
}

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("unchanged content", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		doc := h.seed(t, "https://example.com/stable", "same content")
		h.upstream[doc.SourceURL] = "same content"

		records, err := h.detector.Detect(context.Background(), doc.ID)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, docbase.VerdictUnchanged, records[0].Verdict)
		assert.Equal(t, doc.ContentHash, records[0].StoredHash)
		assert.Equal(t, doc.ContentHash, records[0].FreshHash)
	})

	t.Run("changed content", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		doc := h.seed(t, "https://example.com/moving", "old content")
		h.upstream[doc.SourceURL] = "new content"

		records, err := h.detector.Detect(context.Background(), doc.ID)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, docbase.VerdictChanged, records[0].Verdict)
		assert.Equal(t, docbase.HashContent("new content"), records[0].FreshHash)
		assert.Equal(t, "new content", records[0].FreshBody)
	})

	t.Run("unreachable source", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		doc := h.seed(t, "https://example.com/dead", "content")
		// No upstream entry: every fetch fails.

		records, err := h.detector.Detect(context.Background(), doc.ID)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, docbase.VerdictUnreachable, records[0].Verdict)
	})

	t.Run("all scope covers every indexed document", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		a := h.seed(t, "https://example.com/a", "a content")
		b := h.seed(t, "https://example.com/b", "b content")
		h.upstream[a.SourceURL] = "a content"
		h.upstream[b.SourceURL] = "b content changed"

		records, err := h.detector.Detect(context.Background(), docbase.ScopeAll)

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		_, err := h.detector.Detect(context.Background(), "absent")

		assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
	})
}

func TestDetector_Cleanup(t *testing.T) {
	t.Parallel()

	t.Run("changed documents are re-stored and re-indexed", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		h := newHarness(t)
		doc := h.seed(t, "https://example.com/moving", "old content")
		h.upstream[doc.SourceURL] = "new content"

		records, err := h.detector.Detect(ctx, doc.ID)
		require.NoError(t, err)

		summary, err := h.detector.Cleanup(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)

		got, err := h.index.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, docbase.HashContent("new content"), got.ContentHash)
		assert.Equal(t, checkedAt, got.FetchedAt.UTC())

		_, body, err := h.store.ReadBody(ctx, got.StoragePath)
		require.NoError(t, err)
		assert.Equal(t, "new content", body)
	})

	t.Run("unchanged documents refresh the fetch timestamp", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		h := newHarness(t)
		doc := h.seed(t, "https://example.com/stable", "same content")
		h.upstream[doc.SourceURL] = "same content"

		records, err := h.detector.Detect(ctx, doc.ID)
		require.NoError(t, err)

		summary, err := h.detector.Cleanup(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Unchanged)

		got, err := h.index.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, checkedAt, got.FetchedAt.UTC())
	})

	t.Run("unreachable below threshold is deferred", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		h := newHarness(t)
		doc := h.seed(t, "https://example.com/dead", "content")

		records, err := h.detector.Detect(ctx, doc.ID)
		require.NoError(t, err)

		summary, err := h.detector.Cleanup(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Deferred)
		assert.Empty(t, summary.Removed)

		got, err := h.index.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Misses)
	})

	t.Run("removal at the consecutive-miss threshold", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		h := newHarness(t)
		h.detector.RemovalThreshold = 2
		doc := h.seed(t, "https://example.com/dead", "content")

		records, err := h.detector.Detect(ctx, doc.ID)
		require.NoError(t, err)

		summary, err := h.detector.Cleanup(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Deferred)

		summary, err = h.detector.Cleanup(ctx, records)
		require.NoError(t, err)
		require.Len(t, summary.Removed, 1)
		assert.Equal(t, doc.ID, summary.Removed[0].ID)
		assert.Equal(t, doc.ContentHash, summary.Removed[0].PriorHash)

		_, err = h.index.FindByID(ctx, doc.ID)
		assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))

		_, _, err = h.store.ReadBody(ctx, doc.StoragePath)
		assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
	})

	t.Run("recovery resets the miss counter", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		h := newHarness(t)
		doc := h.seed(t, "https://example.com/flaky", "content")

		// First pass: unreachable.
		records, err := h.detector.Detect(ctx, doc.ID)
		require.NoError(t, err)
		_, err = h.detector.Cleanup(ctx, records)
		require.NoError(t, err)

		// Source comes back with the same content.
		h.upstream[doc.SourceURL] = "content"
		records, err = h.detector.Detect(ctx, doc.ID)
		require.NoError(t, err)
		_, err = h.detector.Cleanup(ctx, records)
		require.NoError(t, err)

		got, err := h.index.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Misses)
	})
}
