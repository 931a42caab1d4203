package index_test

import (
	"testing"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segstore"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.New(index.Config{Logger: logger.NewNop()})
	require.NoError(t, err)
	return idx
}

func TestSetTracksStaleBytesOnOverwrite(t *testing.T) {
	idx := newIndex(t)

	idx.Set("k", segstore.Location{SegmentID: 1, Offset: 0, Length: 10})
	require.Equal(t, uint64(0), idx.StaleBytes())

	idx.Set("k", segstore.Location{SegmentID: 1, Offset: 10, Length: 20})
	require.Equal(t, uint64(10), idx.StaleBytes())

	loc, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, int64(20), loc.Length)
}

func TestRemoveAccountsStaleAndReportsAbsence(t *testing.T) {
	idx := newIndex(t)

	_, ok := idx.Remove("missing")
	require.False(t, ok)

	idx.Set("k", segstore.Location{SegmentID: 1, Offset: 0, Length: 5})
	prev, ok := idx.Remove("k")
	require.True(t, ok)
	require.Equal(t, int64(5), prev.Length)
	require.Equal(t, uint64(5), idx.StaleBytes())

	_, ok = idx.Get("k")
	require.False(t, ok)
}

func TestResetClearsStaleBytes(t *testing.T) {
	idx := newIndex(t)
	idx.Set("k", segstore.Location{SegmentID: 1, Offset: 0, Length: 5})
	idx.Set("k", segstore.Location{SegmentID: 1, Offset: 5, Length: 5})
	require.Equal(t, uint64(5), idx.StaleBytes())

	idx.Reset(map[string]segstore.Location{"k": {SegmentID: 2, Offset: 0, Length: 5}})
	require.Equal(t, uint64(0), idx.StaleBytes())
	require.Equal(t, 1, idx.Len())
}

func TestRangeVisitsEveryEntry(t *testing.T) {
	idx := newIndex(t)
	idx.Set("a", segstore.Location{SegmentID: 1, Offset: 0, Length: 1})
	idx.Set("b", segstore.Location{SegmentID: 1, Offset: 1, Length: 1})

	seen := map[string]bool{}
	idx.Range(func(key string, _ segstore.Location) bool {
		seen[key] = true
		return true
	})
	require.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}
