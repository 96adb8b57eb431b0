package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const ShutdownTimeout = 10 * time.Second

type HTTPServer struct {
	logs   *zap.SugaredLogger
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

func NewHTTP(logger *zap.SugaredLogger, handler http.Handler, addr string) *HTTPServer {
	return &HTTPServer{
		logs: logger,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Run binds the listener and serves in the background. A bind failure is
// delivered on the returned channel, as is the final Serve error.
func (s *HTTPServer) Run() <-chan error {
	errChan := make(chan error, 1)

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		errChan <- fmt.Errorf("listen on %s: %w", s.server.Addr, err)
		return errChan
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logs.Infow("server listening", "addr", ln.Addr().String())

	go func() {
		errChan <- s.server.Serve(ln)
	}()

	return errChan
}

// Addr is the bound address, or "" before a successful Run.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *HTTPServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logs.Infow("shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
