// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package observability provides the game's Prometheus metric set and
// the HTTP endpoint serving it alongside health probes.
package observability

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// Readiness is the latch behind the readiness probe. It starts
// not-ready; the bootstrap flips it once the world is wired, so the
// probe can see the listener before the core without reporting ready.
type Readiness struct {
	ready atomic.Bool
}

// Set flips the latch.
func (r *Readiness) Set(ready bool) { r.ready.Store(ready) }

// Ready reports the current latch state.
func (r *Readiness) Ready() bool { return r.ready.Load() }

// Server serves /metrics and the health probes on its own listener,
// with a private registry so tests can run servers side by side.
type Server struct {
	addr      string
	registry  *prometheus.Registry
	metrics   *Metrics
	readiness *Readiness

	mu       sync.Mutex
	listener net.Listener
	httpSrv  *http.Server
}

// NewServer creates the server and its metric registry. Nothing is
// bound until Start.
func NewServer(addr string) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Server{
		addr:      addr,
		registry:  registry,
		metrics:   NewMetrics(registry),
		readiness: &Readiness{},
	}
}

// Metrics returns the game metric set the core packages record into.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Readiness returns the latch the readiness probe reports.
func (s *Server) Readiness() *Readiness { return s.readiness }

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start binds the listener and serves in the background. The returned
// channel carries a serve failure, if any, and closes on shutdown.
func (s *Server) Start() (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil, oops.Code("OBS_ALREADY_STARTED").Errorf("observability server already started")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, oops.Code("OBS_LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/healthz/liveness", func(w http.ResponseWriter, _ *http.Request) {
		probeReply(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("/healthz/readiness", func(w http.ResponseWriter, _ *http.Request) {
		if s.readiness.Ready() {
			probeReply(w, http.StatusOK, "ok")
			return
		}
		probeReply(w, http.StatusServiceUnavailable, "not ready")
	})

	s.httpSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	srv := s.httpSrv
	go func() {
		defer close(errCh)
		if serveErr := srv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	slog.Info("observability listening", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop shuts the server down, draining in-flight probe requests. Safe
// to call before Start and more than once.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.httpSrv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return oops.Code("OBS_STOP_FAILED").Wrap(err)
	}
	slog.Info("observability stopped")
	return nil
}

func probeReply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body + "\n"))
}
