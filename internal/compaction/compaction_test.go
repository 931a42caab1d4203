package compaction_test

import (
	"fmt"
	"testing"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/compaction"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/replay"
	"github.com/ignitedb/ignite/internal/segstore"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newStoreAndIndex(t *testing.T) (*segstore.Store, *index.Index) {
	t.Helper()
	dir := t.TempDir()
	store, err := segstore.Open(segstore.Config{DataDir: dir, Logger: logger.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	idx, err := index.New(index.Config{Logger: logger.NewNop()})
	require.NoError(t, err)
	return store, idx
}

func appendRecord(t *testing.T, store *segstore.Store, idx *index.Index, rec codec.Record) {
	t.Helper()
	data, err := codec.MarshalRecord(rec)
	require.NoError(t, err)
	loc, err := store.Append(data)
	require.NoError(t, err)

	switch r := rec.(type) {
	case codec.SetRecord:
		idx.Set(r.Key, loc)
	case codec.RemoveRecord:
		_, _ = idx.Remove(r.Key)
		idx.AddStale(uint64(loc.Length))
	}
}

func TestCompactionPreservesLiveKeysAndResetsStale(t *testing.T) {
	store, idx := newStoreAndIndex(t)

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("key-%d", i%2)
		appendRecord(t, store, idx, codec.SetRecord{Key: key, Value: fmt.Sprintf("v%d", i)})
	}
	appendRecord(t, store, idx, codec.RemoveRecord{Key: "key-1"})

	require.Greater(t, idx.StaleBytes(), uint64(0))
	oldMax := store.ActiveSegmentID()

	err := compaction.Run(store, idx, 1024*1024, logger.NewNop())
	require.NoError(t, err)

	require.Equal(t, uint64(0), idx.StaleBytes())
	require.Equal(t, 1, idx.Len())

	loc, ok := idx.Get("key-0")
	require.True(t, ok)
	require.Greater(t, loc.SegmentID, oldMax)

	_, ok = idx.Get("key-1")
	require.False(t, ok)

	for _, id := range store.SegmentIDs() {
		require.Greater(t, id, oldMax)
	}
}

func TestCompactionSurvivesAndReplaysCleanly(t *testing.T) {
	store, idx := newStoreAndIndex(t)
	appendRecord(t, store, idx, codec.SetRecord{Key: "a", Value: "1"})
	appendRecord(t, store, idx, codec.SetRecord{Key: "a", Value: "2"})

	require.NoError(t, compaction.Run(store, idx, 1024*1024, logger.NewNop()))

	rebuilt, err := index.New(index.Config{Logger: logger.NewNop()})
	require.NoError(t, err)
	require.NoError(t, replay.Apply(store, rebuilt))

	loc, ok := rebuilt.Get("a")
	require.True(t, ok)
	data, err := store.Read(loc)
	require.NoError(t, err)
	rec, err := codec.UnmarshalRecord(data)
	require.NoError(t, err)
	require.Equal(t, codec.SetRecord{Key: "a", Value: "2"}, rec)
}
