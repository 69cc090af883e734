package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCache(t *testing.T) *sqlite.Cache {
	t.Helper()
	c := sqlite.NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, c.Open())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_VersionEmpty(t *testing.T) {
	t.Parallel()

	c := openCache(t)

	v, err := c.Version(context.Background())

	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestCache_ReplaceAndQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openCache(t)

	postings := []docbase.Posting{
		{Token: "routing", DocID: "example-com-a", Freq: 3},
		{Token: "routing", DocID: "example-com-b", Freq: 1},
		{Token: "middleware", DocID: "example-com-a", Freq: 2},
	}
	require.NoError(t, c.Replace(ctx, 42, postings))

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	got, err := c.Postings(ctx, "routing")
	require.NoError(t, err)
	assert.Equal(t, []docbase.Posting{
		{Token: "routing", DocID: "example-com-a", Freq: 3},
		{Token: "routing", DocID: "example-com-b", Freq: 1},
	}, got)

	tokens, err := c.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"middleware", "routing"}, tokens)
}

func TestCache_ReplaceIsWholesale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openCache(t)

	require.NoError(t, c.Replace(ctx, 1, []docbase.Posting{
		{Token: "old", DocID: "example-com-a", Freq: 1},
	}))
	require.NoError(t, c.Replace(ctx, 2, []docbase.Posting{
		{Token: "new", DocID: "example-com-b", Freq: 1},
	}))

	old, err := c.Postings(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, old)

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestCache_PostingsUnknownToken(t *testing.T) {
	t.Parallel()

	c := openCache(t)

	got, err := c.Postings(context.Background(), "absent")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCache_Destroy(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.db")
	c := sqlite.NewCache(path)
	require.NoError(t, c.Open())
	require.NoError(t, c.Replace(context.Background(), 1, nil))

	require.NoError(t, c.Destroy())

	// A fresh open starts empty.
	c2 := sqlite.NewCache(path)
	require.NoError(t, c2.Open())
	defer c2.Close()

	v, err := c2.Version(context.Background())
	require.NoError(t, err)
	assert.Zero(t, v)
}
