package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIndex_Check(t *testing.T) {
	t.Parallel()

	t.Run("consistent corpus reports no problems", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		root := t.TempDir()
		store := fs.NewStore(root)
		idx := fs.NewIndex(root)

		doc := testDocument("https://example.com/docs/intro")
		relPath, err := store.WriteBody(ctx, doc, "body")
		require.NoError(t, err)
		doc.StoragePath = relPath
		require.NoError(t, idx.Upsert(ctx, doc))

		problems, err := idx.Check(ctx, store)
		require.NoError(t, err)
		assert.Empty(t, problems)
	})

	t.Run("reports index entry with missing body", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		root := t.TempDir()
		store := fs.NewStore(root)
		idx := fs.NewIndex(root)

		doc := testDocument("https://example.com/docs/intro")
		doc.StoragePath = "example.com/docs/intro.md"
		require.NoError(t, idx.Upsert(ctx, doc))

		problems, err := idx.Check(ctx, store)
		require.NoError(t, err)
		require.Len(t, problems, 1)
		assert.Equal(t, doc.ID, problems[0].ID)
		assert.Contains(t, problems[0].Description, "missing stored body")
	})

	t.Run("reports orphaned stored body", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		root := t.TempDir()
		store := fs.NewStore(root)
		idx := fs.NewIndex(root)

		doc := testDocument("https://example.com/docs/orphan")
		relPath, err := store.WriteBody(ctx, doc, "body")
		require.NoError(t, err)

		problems, err := idx.Check(ctx, store)
		require.NoError(t, err)
		require.Len(t, problems, 1)
		assert.Equal(t, relPath, problems[0].StoragePath)
		assert.Contains(t, problems[0].Description, "no index entry")
	})
}

func TestLoadTagRules(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields empty ruleset", func(t *testing.T) {
		t.Parallel()

		rules, err := fs.LoadTagRules("does/not/exist.yml")

		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("parses rules", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, `rules:
  - tag: deployment
    patterns: ["deploy", "kubernetes"]
  - tag: api
    patterns: ["endpoint"]
`)

		rules, err := fs.LoadTagRules(path)

		require.NoError(t, err)
		assert.Equal(t, []docbase.TagRule{
			{Tag: "deployment", Patterns: []string{"deploy", "kubernetes"}},
			{Tag: "api", Patterns: []string{"endpoint"}},
		}, rules)
	})

	t.Run("malformed ruleset is invalid", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, ":\n\t-")

		_, err := fs.LoadTagRules(path)

		assert.Equal(t, docbase.EINVALID, docbase.ErrorCode(err))
	})
}

func TestManifestFile_Load(t *testing.T) {
	t.Parallel()

	t.Run("loads and parses a manifest file", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, "[Intro](https://example.com/intro)\n[Setup](https://example.com/setup)\n")

		manifest, err := fs.NewManifestFile().Load(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, path, manifest.Origin)
		assert.Len(t, manifest.Entries, 2)
	})

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewManifestFile().Load(context.Background(), "does/not/exist.md")

		assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
	})
}
