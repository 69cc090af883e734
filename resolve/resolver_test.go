package resolve_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/fs"
	"github.com/fwojciec/docbase/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	root     string
	index    *fs.Index
	store    *fs.Store
	resolver *resolve.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	index := fs.NewIndex(root)
	store := fs.NewStore(root)
	return &fixture{
		root:  root,
		index: index,
		store: store,
		resolver: &resolve.Resolver{
			Index: index,
			Store: store,
		},
	}
}

func (f *fixture) seed(t *testing.T, url, body string) *docbase.Document {
	t.Helper()
	ctx := context.Background()

	doc := &docbase.Document{
		ID:          docbase.DeriveID(url),
		SourceURL:   url,
		Title:       "Guide",
		Keywords:    []string{"routing"},
		Tags:        []string{"guide"},
		ContentHash: docbase.HashContent(body),
		FetchedAt:   time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	relPath, err := f.store.WriteBody(ctx, doc, body)
	require.NoError(t, err)
	doc.StoragePath = relPath
	require.NoError(t, f.index.Upsert(ctx, doc))
	return doc
}

func TestResolver_ResolveDocID(t *testing.T) {
	t.Parallel()

	t.Run("returns body and metadata without storage path", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		doc := f.seed(t, "https://example.com/guide", "# Guide\n\nContent.")

		resolved, err := f.resolver.ResolveDocID(context.Background(), doc.ID)

		require.NoError(t, err)
		assert.Equal(t, doc.ID, resolved.ID)
		assert.Equal(t, doc.SourceURL, resolved.SourceURL)
		assert.Equal(t, "# Guide\n\nContent.", resolved.Body)
		assert.Equal(t, doc.ContentHash, resolved.ContentHash)
		assert.Equal(t, []string{"routing"}, resolved.Keywords)
		assert.Equal(t, []string{"guide"}, resolved.Tags)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.resolver.ResolveDocID(context.Background(), "absent")

		assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
	})

	t.Run("missing stored body is stale", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		doc := f.seed(t, "https://example.com/guide", "content")
		require.NoError(t, f.store.RemoveBody(context.Background(), doc.StoragePath))

		_, err := f.resolver.ResolveDocID(context.Background(), doc.ID)

		assert.Equal(t, docbase.ESTALE, docbase.ErrorCode(err))
	})

	t.Run("hash mismatch is stale", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		doc := f.seed(t, "https://example.com/guide", "original content")

		// Tamper with the stored body behind the index's back.
		tampered := &docbase.Document{
			ID:          doc.ID,
			SourceURL:   doc.SourceURL,
			ContentHash: doc.ContentHash,
			FetchedAt:   doc.FetchedAt,
		}
		_, err := f.store.WriteBody(context.Background(), tampered, "tampered content")
		require.NoError(t, err)

		_, err = f.resolver.ResolveDocID(context.Background(), doc.ID)

		assert.Equal(t, docbase.ESTALE, docbase.ErrorCode(err))
	})
}

func TestResolver_GetDocumentSection(t *testing.T) {
	t.Parallel()

	body := `# Guide

Intro.

## Installation

Run the installer.

## Usage

Call the API.`

	t.Run("extracts a matching section", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		doc := f.seed(t, "https://example.com/guide", body)

		section, err := f.resolver.GetDocumentSection(context.Background(), doc.ID, "Installation")

		require.NoError(t, err)
		assert.Contains(t, section, "Run the installer.")
		assert.NotContains(t, section, "Call the API.")
	})

	t.Run("no matching heading", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		doc := f.seed(t, "https://example.com/guide", body)

		_, err := f.resolver.GetDocumentSection(context.Background(), doc.ID, "Deployment")

		assert.Equal(t, docbase.ESECTION, docbase.ErrorCode(err))
	})

	t.Run("unknown identifier", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.resolver.GetDocumentSection(context.Background(), "absent", "Installation")

		assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
	})
}

func TestResolver_StalenessSurvivesDirectFileEdits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	doc := f.seed(t, "https://example.com/guide", "original")

	// Hand-edit the stored file directly.
	full := filepath.Join(f.root, "docs", doc.StoragePath)
	raw, err := os.ReadFile(full)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(full, append(raw, []byte("\nedited")...), 0o644))

	_, err = f.resolver.ResolveDocID(context.Background(), doc.ID)

	assert.Equal(t, docbase.ESTALE, docbase.ErrorCode(err))
}
