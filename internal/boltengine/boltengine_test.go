package boltengine_test

import (
	"testing"

	"github.com/ignitedb/ignite/internal/boltengine"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *boltengine.Engine {
	t.Helper()
	e, err := boltengine.New(boltengine.Config{DataDir: t.TempDir(), Logger: logger.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestSetGetRemove(t *testing.T) {
	e := newEngine(t)

	require.NoError(t, e.Set("k", "v"))
	value, ok, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)

	require.NoError(t, e.Remove("k"))
	_, ok, err = e.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveAbsentKeyReturnsKeyNotFound(t *testing.T) {
	e := newEngine(t)
	err := e.Remove("missing")
	require.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestGetAbsentKeyReturnsNotFoundNoError(t *testing.T) {
	e := newEngine(t)
	_, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}
