package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "srtrans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_BatchRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	started := time.Now().UTC().Truncate(time.Second)
	rec := BatchRecord{
		ID:         "batch-1",
		Folder:     "/subs",
		SourceLang: "auto",
		TargetLang: "vi",
		Total:      2,
		Succeeded:  1,
		Failed:     1,
		Files: []FileRecord{
			{Path: "/subs/a.srt", Status: "completed"},
			{Path: "/subs/b.srt", Status: "error", Error: "boom"},
		},
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
	}
	require.NoError(t, store.SaveBatch(ctx, rec))

	got, ok, err := store.GetBatch(ctx, "batch-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.Folder, got.Folder)
	assert.Equal(t, rec.TargetLang, got.TargetLang)
	assert.Equal(t, 1, got.Failed)
	assert.False(t, got.Canceled)
	assert.Equal(t, rec.Files, got.Files)
	assert.True(t, rec.FinishedAt.Equal(got.FinishedAt))
}

func TestSQLiteStore_GetBatchMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	got, ok, err := store.GetBatch(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSQLiteStore_ListBatchesNewestFirst(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)
	for i := range 3 {
		require.NoError(t, store.SaveBatch(ctx, BatchRecord{
			ID:         fmt.Sprintf("batch-%d", i),
			SourceLang: "en",
			TargetLang: "vi",
			StartedAt:  base,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := store.ListBatches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "batch-2", all[0].ID)
	assert.Equal(t, "batch-0", all[2].ID)
	assert.Empty(t, all[0].Files)

	limited, err := store.ListBatches(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteStore_SaveBatchUpsertsAndValidates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.Error(t, store.SaveBatch(ctx, BatchRecord{}))

	rec := BatchRecord{ID: "b", SourceLang: "en", TargetLang: "vi", Total: 1, StartedAt: now, FinishedAt: now}
	require.NoError(t, store.SaveBatch(ctx, rec))
	rec.Canceled = true
	rec.Succeeded = 1
	require.NoError(t, store.SaveBatch(ctx, rec))

	got, ok, err := store.GetBatch(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Canceled)
	assert.Equal(t, 1, got.Succeeded)
}

func TestSQLiteStore_ReopenKeepsHistory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "srtrans.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, store.SaveBatch(context.Background(), BatchRecord{ID: "b", SourceLang: "en", TargetLang: "vi", StartedAt: now, FinishedAt: now}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	all, err := reopened.ListBatches(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, 1, migrationVersion("001_init.sql"))
	assert.Equal(t, 12, migrationVersion("12"))
	assert.Equal(t, 0, migrationVersion("init.sql"))
}
