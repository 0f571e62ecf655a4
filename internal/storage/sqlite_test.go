package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreSetGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "greeting", "hello", "string"))

	rec, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "greeting", rec.Key)
	assert.Equal(t, "hello", rec.Value)
	assert.Equal(t, "string", rec.Type)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestSQLiteStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "absent")
	require.Error(t, err)
	assert.Equal(t, types.STORAGE_KEY_MISSING, types.CodeOf(err))
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v1", "string"))
	require.NoError(t, store.Set(ctx, "k", "v2", "json"))

	rec, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", rec.Value)
	assert.Equal(t, "json", rec.Type)
	assert.Equal(t, 1, store.GetStats().Keys)
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", ""))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.Equal(t, types.STORAGE_KEY_MISSING, types.CodeOf(err))

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestSQLiteStoreList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"user:1", "user:2", "user:3", "job:1"} {
		require.NoError(t, store.Set(ctx, key, "v", "string"))
	}

	records, err := store.List(ctx, "user:%", 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "user:1", records[0].Key)

	// Pagination.
	records, err = store.List(ctx, "user:%", 2, 2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "user:3", records[0].Key)

	// Empty pattern matches everything.
	records, err = store.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestSQLiteStoreQuery(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1", "number"))
	require.NoError(t, store.Set(ctx, "b", "2", "number"))

	rows, err := store.Query(ctx, "SELECT key, value FROM kv_store WHERE value_type = ? ORDER BY key", []any{"number"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0]["key"])
	assert.Equal(t, "1", rows[0]["value"])
}

func TestSQLiteStoreStatsAndHealth(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", "string"))
	_, _ = store.Get(ctx, "k")
	_, _ = store.Query(ctx, "SELECT 1", nil)

	stats := store.GetStats()
	assert.Equal(t, "sqlite", stats.Backend)
	assert.Equal(t, 1, stats.Keys)
	assert.Equal(t, int64(1), stats.Reads)
	assert.Equal(t, int64(1), stats.Writes)
	assert.Equal(t, int64(1), stats.Queries)

	assert.True(t, store.HealthCheck(ctx).IsHealthy())
}
