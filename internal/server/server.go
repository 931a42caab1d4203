// Package server implements the single-threaded request/response listener
// of spec.md §4.5: accept a connection, read one request, execute it
// against the engine, write one response, close the connection.
package server

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"

	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/ignitedb/ignite/internal/metrics"
	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ErrServerClosed is returned by Serve after Close has been called.
var ErrServerClosed = stdErrors.New("server: closed")

// Config configures a new Server.
type Config struct {
	Addr        string
	MetricsAddr string // empty disables the /metrics HTTP endpoint
	DataDir     string
	Engine      options.EngineKind // empty means "use stored or default"
	Logger      *zap.SugaredLogger
}

// Server owns the TCP listener, the underlying store instance, and the
// optional metrics HTTP endpoint.
type Server struct {
	listener   net.Listener
	instance   *ignite.Instance
	log        *zap.SugaredLogger
	metrics    *metrics.Metrics
	metricsSrv *http.Server
	closed     atomic.Bool
}

// New resolves the persisted engine selection, opens the store, and binds
// the listen address. It does not yet accept connections — call Serve.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		return nil, errors.NewRequiredFieldError("logger")
	}

	if err := filesys.CreateDir(cfg.DataDir, 0o755, true); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to create data directory").
			WithPath(cfg.DataDir)
	}

	resolved, err := resolveEngineKind(cfg.DataDir, cfg.Engine)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	instance, err := ignite.NewInstanceWithMetrics(
		ctx, "ignite-server", m,
		options.WithDataDir(cfg.DataDir),
		options.WithEngine(resolved),
	)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		instance.Close(ctx)
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to bind listen address")
	}

	s := &Server{listener: listener, instance: instance, log: cfg.Logger, metrics: m}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		s.metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := s.metricsSrv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
				cfg.Logger.Errorw("metrics server stopped", "error", err)
			}
		}()
		cfg.Logger.Infow("metrics endpoint listening", "addr", cfg.MetricsAddr)
	}

	cfg.Logger.Infow("server listening", "addr", listener.Addr().String(), "engine", resolved)
	return s, nil
}

// Serve runs the single-threaded accept loop until the listener is closed:
// accept, handle fully, close, repeat — no pipelining, no per-connection
// goroutine (spec.md §4.5, §5).
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			return err
		}
		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	reqID := uuid.New()
	log := s.log.With("requestId", reqID.String(), "remoteAddr", conn.RemoteAddr().String())

	req, err := wire.DecodeRequest(conn)
	if err != nil {
		log.Warnw("failed to decode request", "error", err)
		wire.EncodeResponse(conn, wire.ErrResponse(errors.NewMalformedMessageError(err).Error()))
		return
	}

	resp := s.execute(log, req)
	if err := wire.EncodeResponse(conn, resp); err != nil {
		log.Warnw("failed to write response", "error", err)
	}
}

func (s *Server) execute(log *zap.SugaredLogger, req wire.Request) wire.Response {
	switch r := req.(type) {
	case wire.GetRequest:
		value, ok, err := s.instance.Get(context.Background(), r.Key)
		if err != nil {
			log.Errorw("get failed", "key", r.Key, "error", err)
			return wire.ErrResponse(err.Error())
		}
		if !ok {
			return wire.OkNone()
		}
		return wire.OkValue(value)

	case wire.SetRequest:
		if err := s.instance.Set(context.Background(), r.Key, r.Value); err != nil {
			log.Errorw("set failed", "key", r.Key, "error", err)
			return wire.ErrResponse(err.Error())
		}
		return wire.OkNone()

	case wire.RemoveRequest:
		if err := s.instance.Remove(context.Background(), r.Key); err != nil {
			if !errors.IsKeyNotFound(err) {
				log.Errorw("remove failed", "key", r.Key, "error", err)
			}
			return wire.ErrResponse(err.Error())
		}
		return wire.OkNone()

	default:
		return wire.ErrResponse(errors.NewProtocolError("unrecognized request variant").Error())
	}
}

// Close stops accepting new connections and releases the underlying store.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if s.metricsSrv != nil {
		s.metricsSrv.Close()
	}

	listenErr := s.listener.Close()
	instErr := s.instance.Close(context.Background())
	if listenErr != nil {
		return listenErr
	}
	return instErr
}
