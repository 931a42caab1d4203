// Command ignite-server runs the request/response listener of spec.md §6.3:
// bind an address, resolve the persisted or requested storage engine, and
// serve Get/Set/Remove requests until terminated.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignitedb/ignite/internal/server"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/spf13/cobra"
)

const defaultListenAddress = "127.0.0.1:4000"

func main() {
	var (
		addr        string
		metricsAddr string
		dataDir     string
		engine      string
	)

	cmd := &cobra.Command{
		Use:   "ignite-server",
		Short: "A key-value store server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("ignite-server")

			if dataDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to determine working directory: %w", err)
				}
				dataDir = wd
			}

			engineKind := options.EngineKind(engine)
			if engineKind != "" && engineKind != options.EngineKvs && engineKind != options.EngineBolt {
				return fmt.Errorf("unsupported engine %q", engine)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			srv, err := server.New(ctx, server.Config{
				Addr:        addr,
				MetricsAddr: metricsAddr,
				DataDir:     dataDir,
				Engine:      engineKind,
				Logger:      log,
			})
			if err != nil {
				return err
			}

			log.Infow("ignite-server starting", "addr", addr, "dataDir", dataDir)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Serve() }()

			select {
			case <-ctx.Done():
				return srv.Close()
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultListenAddress, "Sets the server address (IP:PORT)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Sets the Prometheus metrics address (IP:PORT); disabled if empty")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Sets the data directory (default: current directory)")
	cmd.Flags().StringVar(&engine, "engine", "", "Sets the storage engine (kvs|bolt)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
