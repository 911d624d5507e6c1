// Package health serves the liveness endpoints hosting platforms poll.
package health

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pavelc4/gofile-relay-bot/internal/middleware"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	srv *http.Server
}

func NewServer(port string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           middleware.Recovery(Handler()),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", text("GoFile Bot is running"))
	mux.HandleFunc("GET /health", text("Bot is healthy"))
	mux.HandleFunc("GET /ping", text("pong"))
	return mux
}

func text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}
}

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Health server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Health server stopped")
	return nil
}
