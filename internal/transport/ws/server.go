package ws

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type server struct {
	srv      *http.Server
	hub      domain.HubUseCase
	reporter domain.ReporterUseCase
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func New(addr string, hub domain.HubUseCase, reporter domain.ReporterUseCase, logger *zap.Logger) *server {
	s := &server{
		hub:      hub,
		reporter: reporter,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *server) ListenAndServe(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context {
		return ctx
	}
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting listening address: " + s.srv.Addr)
		errChan <- s.srv.ListenAndServe()
	}()
	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WithMessage(err, "listen and serve")
	case <-ctx.Done():
		return s.Shutdown()
	}
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.WithMessage(err, "shutdown http server")
	}
	return nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/game", s.serveWs)
	mux.HandleFunc("GET /health", s.healthCheck)
	mux.HandleFunc("GET /sessions", s.sessions)
	mux.HandleFunc("GET /leaderboard", s.leaderboard)
	return mux
}
