package server_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ignitedb/ignite/internal/client"
	"github.com/ignitedb/ignite/internal/server"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"
)

func startServer(t *testing.T, dataDir string, engine options.EngineKind) (addr string, stop func()) {
	t.Helper()
	port := dynaport.Get(1)[0]
	addr = fmt.Sprintf("127.0.0.1:%d", port)

	srv, err := server.New(context.Background(), server.Config{
		Addr:    addr,
		DataDir: dataDir,
		Engine:  engine,
		Logger:  logger.NewNop(),
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		srv.Serve()
		close(done)
	}()

	return addr, func() {
		srv.Close()
		<-done
	}
}

func TestServerSetGetRemove(t *testing.T) {
	addr, stop := startServer(t, t.TempDir(), options.EngineKvs)
	defer stop()

	c := client.New(addr, 0)
	require.NoError(t, c.Set("k", "v"))

	value, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)

	require.NoError(t, c.Remove("k"))
	_, ok, err = c.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestServerRemoveAbsentKeyReturnsKeyNotFound(t *testing.T) {
	addr, stop := startServer(t, t.TempDir(), options.EngineKvs)
	defer stop()

	c := client.New(addr, 0)
	err := c.Remove("missing")
	require.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestServerRefusesMismatchedEngineOnRestart(t *testing.T) {
	dir := t.TempDir()
	addr, stop := startServer(t, dir, options.EngineKvs)
	stop()
	_ = addr

	port := dynaport.Get(1)[0]
	_, err := server.New(context.Background(), server.Config{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		DataDir: dir,
		Engine:  options.EngineBolt,
		Logger:  logger.NewNop(),
	})
	require.Error(t, err)

	_, ok := errors.AsEngineMismatchError(err)
	require.True(t, ok)
}
