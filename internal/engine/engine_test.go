package engine_test

import (
	"fmt"
	"testing"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/metrics"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, mutators ...options.OptionFunc) *engine.Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	for _, m := range mutators {
		m(&opts)
	}

	e, err := engine.New(&engine.Config{Options: &opts, Logger: logger.NewNop(), Metrics: metrics.Noop()})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestSetThenGetReadsYourWrites(t *testing.T) {
	e := newEngine(t)

	require.NoError(t, e.Set("k", "v1"))
	value, ok, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", value)

	require.NoError(t, e.Set("k", "v2"))
	value, ok, err = e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", value)
}

func TestGetAbsentKeyReturnsNotFound(t *testing.T) {
	e := newEngine(t)
	_, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveAbsentKeyReturnsKeyNotFound(t *testing.T) {
	e := newEngine(t)
	err := e.Remove("missing")
	require.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestRemoveErasesKey(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Set("k", "v"))
	require.NoError(t, e.Remove("k"))

	_, ok, err := e.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRestartReplaysState(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir

	e1, err := engine.New(&engine.Config{Options: &opts, Logger: logger.NewNop(), Metrics: metrics.Noop()})
	require.NoError(t, err)
	require.NoError(t, e1.Set("a", "1"))
	require.NoError(t, e1.Set("b", "2"))
	require.NoError(t, e1.Remove("a"))
	require.NoError(t, e1.Close())

	e2, err := engine.New(&engine.Config{Options: &opts, Logger: logger.NewNop(), Metrics: metrics.Noop()})
	require.NoError(t, err)
	defer e2.Close()

	_, ok, err := e2.Get("a")
	require.NoError(t, err)
	require.False(t, ok)

	value, ok, err := e2.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", value)
}

func TestCompactionTriggersAutomaticallyAndPreservesState(t *testing.T) {
	e := newEngine(t, options.WithCompactionThreshold(256), options.WithRotationThreshold(1024*1024))

	for i := 0; i < 200; i++ {
		require.NoError(t, e.Set("k", fmt.Sprintf("v%d", i)))
	}

	value, ok, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v199", value)
}

func TestRotationPreservesState(t *testing.T) {
	e := newEngine(t, options.WithRotationThreshold(64), options.WithCompactionThreshold(1<<30))

	for i := 0; i < 20; i++ {
		require.NoError(t, e.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i)))
	}

	for i := 0; i < 20; i++ {
		value, ok, err := e.Get(fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("value-%d", i), value)
	}
}
