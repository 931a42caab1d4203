package segstore_test

import (
	"testing"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/segstore"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *segstore.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := segstore.Open(segstore.Config{DataDir: dir, Logger: logger.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRead(t *testing.T) {
	store := newStore(t)

	data, err := codec.MarshalRecord(codec.SetRecord{Key: "k", Value: "v"})
	require.NoError(t, err)

	loc, err := store.Append(data)
	require.NoError(t, err)
	require.Equal(t, uint64(0), loc.SegmentID)
	require.Equal(t, int64(0), loc.Offset)

	got, err := store.Read(loc)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestRotateOpensNewActiveSegment(t *testing.T) {
	store := newStore(t)
	require.Equal(t, uint64(0), store.ActiveSegmentID())

	require.NoError(t, store.Rotate())
	require.Equal(t, uint64(1), store.ActiveSegmentID())

	ids := store.SegmentIDs()
	require.Contains(t, ids, uint64(0))
	require.Contains(t, ids, uint64(1))
}

func TestAppendWithRotationRotatesAtThreshold(t *testing.T) {
	store := newStore(t)

	data, err := codec.MarshalRecord(codec.SetRecord{Key: "k", Value: "v"})
	require.NoError(t, err)

	_, err = store.AppendWithRotation(data, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(0), store.ActiveSegmentID())

	_, err = store.AppendWithRotation(data, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), store.ActiveSegmentID())
}

func TestDeleteRefusesActiveSegment(t *testing.T) {
	store := newStore(t)
	require.Error(t, store.Delete(store.ActiveSegmentID()))
}

func TestReplayVisitsRecordsInOrder(t *testing.T) {
	store := newStore(t)

	records := []codec.Record{
		codec.SetRecord{Key: "a", Value: "1"},
		codec.SetRecord{Key: "b", Value: "2"},
		codec.RemoveRecord{Key: "a"},
	}
	for _, r := range records {
		data, err := codec.MarshalRecord(r)
		require.NoError(t, err)
		_, err = store.Append(data)
		require.NoError(t, err)
	}

	var visited []segstore.VisitedRecord
	err := store.Replay(func(v segstore.VisitedRecord) error {
		visited = append(visited, v)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, visited, 3)
	require.Equal(t, records[0], visited[0].Record)
	require.Equal(t, records[2], visited[2].Record)
}

func TestReopenDiscoversExistingSegments(t *testing.T) {
	dir := t.TempDir()

	store, err := segstore.Open(segstore.Config{DataDir: dir, Logger: logger.NewNop()})
	require.NoError(t, err)

	data, err := codec.MarshalRecord(codec.SetRecord{Key: "k", Value: "v"})
	require.NoError(t, err)
	_, err = store.Append(data)
	require.NoError(t, err)
	require.NoError(t, store.Rotate())
	require.NoError(t, store.Close())

	reopened, err := segstore.Open(segstore.Config{DataDir: dir, Logger: logger.NewNop()})
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, uint64(1), reopened.ActiveSegmentID())
	require.ElementsMatch(t, []uint64{0, 1}, reopened.SegmentIDs())
}
