package domain

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNoLeaderboard = errors.New("leaderboard store is not configured")

type HealthCheckResponse struct {
	Status         string
	ActiveSessions int64
	BestScore      int64
}

type LeaderboardRow struct {
	Session string
	Score   int
	Level   int
}

type ReporterUseCase interface {
	Run(ctx context.Context) error
	BestScore() int64
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
}

// ResultRepository submits results to outer score servers.
type ResultRepository interface {
	Submit(ctx context.Context, addr string, result GameResult) error
	HealthCheck(ctx context.Context, addr string) (*HealthCheckResponse, error)
}

// ResultSink is any additional destination for finished games.
type ResultSink interface {
	Save(ctx context.Context, result GameResult) error
}

type LeaderboardStore interface {
	TopScores(ctx context.Context, limit int) ([]LeaderboardRow, error)
}
