package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"urlcheck/internal/domain"
)

// ProgressSource exposes the dispatcher's live snapshot.
type ProgressSource interface {
	Progress() domain.Progress
}

// Server is the optional status endpoint for a running check.
type Server struct {
	addr       string
	router     http.Handler
	httpServer *http.Server
	progress   ProgressSource
	logger     *zap.Logger
}

func NewServer(addr string, progress ProgressSource, l *zap.Logger) *Server {
	s := &Server{
		addr:     addr,
		progress: progress,
		logger:   l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
