// Package server owns the HTTP listener of the report service and the
// middleware every request passes through.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
)

// Service is the network layer: one HTTP server around a ServeMux.
type Service interface {
	// Start listens and serves until ctx is canceled or serving fails.
	Start(ctx context.Context) error
	// Stop drains active connections until ctx expires.
	Stop(ctx context.Context) error
	// RegisterHTTPHandler adds a route. Call before Start.
	RegisterHTTPHandler(pattern string, handler http.Handler)
	// HTTPMux exposes the mux for route registrars. Call before Start.
	HTTPMux() *http.ServeMux
	// Addr is the bound listen address, empty before Start.
	Addr() string
}

type httpService struct {
	cfg    Config
	logger *slog.Logger
	mux    *http.ServeMux

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	started bool
}

// New creates a Service from cfg.
func New(cfg Config, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &httpService{
		cfg:    cfg,
		logger: logger.With("component", "server"),
		mux:    http.NewServeMux(),
	}
}

func (s *httpService) Start(ctx context.Context) error {
	ln, err := s.listen()
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		return nil
	}
}

// listen binds the socket and builds the http.Server under the lock so a
// concurrent Stop always sees a consistent state.
func (s *httpService) listen() (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil, errors.New("server already started")
	}
	s.started = true

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.HTTPPort))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("http listen error: %w", err)
	}

	s.ln = ln
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.middleware(s.mux),
		ReadTimeout:  s.cfg.HTTPReadTimeout,
		WriteTimeout: s.cfg.HTTPWriteTimeout,
		IdleTimeout:  s.cfg.HTTPIdleTimeout,
	}
	return ln, nil
}

func (s *httpService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return nil
	}
	s.logger.Info("Stopping HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}
	return nil
}

func (s *httpService) RegisterHTTPHandler(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

func (s *httpService) HTTPMux() *http.ServeMux { return s.mux }

func (s *httpService) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}
