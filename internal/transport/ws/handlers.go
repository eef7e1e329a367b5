package ws

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

func (s *server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade connection", zap.Error(err))
		return
	}
	client := newClient(conn)
	defer client.Close()
	s.logger.Info("new connection", zap.String("remote", r.RemoteAddr))
	if err := s.hub.Handle(r.Context(), client); err != nil {
		s.logger.Warn("play session", zap.Error(err))
	}
}

func (s *server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	s.writeJson(w, http.StatusOK, domain.HealthCheckResponse{
		Status:         "ok",
		ActiveSessions: s.hub.ActiveSessions(),
		BestScore:      s.reporter.BestScore(),
	})
}

func (s *server) sessions(w http.ResponseWriter, _ *http.Request) {
	s.writeJson(w, http.StatusOK, s.hub.Sessions())
}

func (s *server) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(v, maxLeaderboardLimit)
	}
	rows, err := s.reporter.Leaderboard(r.Context(), limit)
	if errors.Is(err, domain.ErrNoLeaderboard) {
		http.Error(w, err.Error(), http.StatusNotImplemented)
		return
	}
	if err != nil {
		s.logger.Warn("load leaderboard", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []domain.LeaderboardRow{}
	}
	s.writeJson(w, http.StatusOK, rows)
}

func (s *server) writeJson(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsoniter.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}
