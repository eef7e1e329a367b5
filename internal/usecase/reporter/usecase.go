package reporter

import (
	"context"
	"fmt"

	"github.com/kiryu-dev/tetris/internal/config"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const httpPrefix = "http://"

type useCase struct {
	repo        domain.ResultRepository
	results     <-chan domain.GameResult
	addrs       []string
	sinks       []domain.ResultSink
	leaderboard domain.LeaderboardStore
	bestScore   *atomic.Int64
	logger      *zap.Logger
}

type Option func(u *useCase)

// WithSinks adds destinations every finished game is saved to.
func WithSinks(sinks ...domain.ResultSink) Option {
	return func(u *useCase) {
		u.sinks = append(u.sinks, sinks...)
	}
}

func WithLeaderboard(store domain.LeaderboardStore) Option {
	return func(u *useCase) {
		u.leaderboard = store
	}
}

func New(repo domain.ResultRepository, results <-chan domain.GameResult, servers []config.ServerConfig,
	logger *zap.Logger, opts ...Option) *useCase {
	addrs := make([]string, 0, len(servers))
	for _, srv := range servers {
		addrs = append(addrs, fmt.Sprintf("%s%s:%d", httpPrefix, srv.Host, srv.Port))
	}
	logger.Info("defined score servers", zap.Strings("servers", addrs))
	u := &useCase{
		repo:      repo,
		results:   results,
		addrs:     addrs,
		bestScore: atomic.NewInt64(0),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run reports results until ctx is done or the results channel is closed.
func (u *useCase) Run(ctx context.Context) error {
	u.checkServers(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case result, ok := <-u.results:
			if !ok {
				return nil
			}
			u.report(ctx, result)
		}
	}
}

func (u *useCase) checkServers(ctx context.Context) {
	for _, addr := range u.addrs {
		resp, err := u.repo.HealthCheck(ctx, addr)
		if err != nil {
			u.logger.Warn("score server is unavailable", zap.String("addr", addr), zap.Error(err))
			continue
		}
		u.logger.Info("score server is available", zap.String("addr", addr), zap.String("status", resp.Status))
	}
}

func (u *useCase) report(ctx context.Context, result domain.GameResult) {
	u.logger.Info("game finished",
		zap.String("session", result.Session),
		zap.Int("score", result.Score),
		zap.Int("level", result.Level),
		zap.Int("lines_removed", result.LinesRemoved),
	)
	if u.updateBestScore(int64(result.Score)) {
		u.logger.Info("new best score", zap.Int("score", result.Score))
	}
	for _, addr := range u.addrs {
		if err := u.repo.Submit(ctx, addr, result); err != nil {
			u.logger.Warn("submit result", zap.String("addr", addr), zap.Error(err))
		}
	}
	for _, sink := range u.sinks {
		if err := sink.Save(ctx, result); err != nil {
			u.logger.Warn("save result", zap.Error(err))
		}
	}
}

func (u *useCase) updateBestScore(score int64) bool {
	for {
		best := u.bestScore.Load()
		if score <= best {
			return false
		}
		if u.bestScore.CompareAndSwap(best, score) {
			return true
		}
	}
}

func (u *useCase) BestScore() int64 {
	return u.bestScore.Load()
}

func (u *useCase) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	if u.leaderboard == nil {
		return nil, domain.ErrNoLeaderboard
	}
	rows, err := u.leaderboard.TopScores(ctx, limit)
	if err != nil {
		return nil, errors.WithMessage(err, "load top scores")
	}
	return rows, nil
}
