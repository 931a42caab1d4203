package ignite_test

import (
	"context"
	"testing"

	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestInstanceSetGetRemoveKvsEngine(t *testing.T) {
	ctx := context.Background()
	inst, err := ignite.NewInstance(ctx, "ignite-test", options.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { inst.Close(ctx) })

	require.NoError(t, inst.Set(ctx, "k", "v"))
	value, ok, err := inst.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)

	require.NoError(t, inst.Remove(ctx, "k"))
	_, ok, err = inst.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInstanceSetGetRemoveBoltEngine(t *testing.T) {
	ctx := context.Background()
	inst, err := ignite.NewInstance(
		ctx, "ignite-test",
		options.WithDataDir(t.TempDir()),
		options.WithEngine(options.EngineBolt),
	)
	require.NoError(t, err)
	t.Cleanup(func() { inst.Close(ctx) })

	require.NoError(t, inst.Set(ctx, "k", "v"))
	value, ok, err := inst.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)
}
