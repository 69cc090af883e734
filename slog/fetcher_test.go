package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/mock"
	docslog "github.com/fwojciec/docbase/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := docslog.NewLoggingFetcher(inner, debugLogger(&buf))
		html, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("propagates errors and logs them", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("connection refused")
			},
		}

		fetcher := docslog.NewLoggingFetcher(inner, debugLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		assert.Error(t, err)
		assert.Contains(t, buf.String(), "connection refused")
	})
}

func TestLoggingSearchService_FindDocument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.SearchService{
		FindDocumentFn: func(ctx context.Context, query string) ([]docbase.DocumentRef, error) {
			return []docbase.DocumentRef{{ID: "example-com-a"}}, nil
		},
	}

	svc := docslog.NewLoggingSearchService(inner, debugLogger(&buf))
	refs, err := svc.FindDocument(context.Background(), "routing")

	require.NoError(t, err)
	assert.Len(t, refs, 1)
	output := buf.String()
	assert.Contains(t, output, "free-text search")
	assert.Contains(t, output, "count=1")
}

func TestLoggingDriftService_Cleanup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.DriftService{
		CleanupFn: func(ctx context.Context, records []docbase.DriftRecord) (*docbase.CleanupSummary, error) {
			return &docbase.CleanupSummary{Updated: 2, Unchanged: 1}, nil
		},
	}

	svc := docslog.NewLoggingDriftService(inner, debugLogger(&buf))
	summary, err := svc.Cleanup(context.Background(), []docbase.DriftRecord{{ID: "a"}})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Updated)
	output := buf.String()
	assert.Contains(t, output, "drift cleanup")
	assert.Contains(t, output, "updated=2")
}
