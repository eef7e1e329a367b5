package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
)

// Store keeps finished games in the results table. A pgx.Conn is not safe
// for concurrent use, so every call holds mu.
type Store struct {
	conn *pgx.Conn
	mu   sync.Mutex
}

func NewStore(ctx context.Context, url string) (*Store, error) {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, errors.WithMessage(err, "connect to postgres")
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.Close(ctx)
}

func (s *Store) EnsureTables(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS results (
	id TEXT PRIMARY KEY,
	session TEXT NOT NULL,
	score INTEGER NOT NULL,
	level INTEGER NOT NULL,
	lines_removed INTEGER NOT NULL,
	pieces_dropped INTEGER NOT NULL,
	ended_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS results_score_idx ON results (score DESC);
`)
	if err != nil {
		return errors.WithMessage(err, "create results table")
	}
	return nil
}

func (s *Store) Save(ctx context.Context, result domain.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Exec(ctx, `
INSERT INTO results (id, session, score, level, lines_removed, pieces_dropped, ended_at)
VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
		result.ID, result.Session, result.Score, result.Level,
		result.LinesRemoved, result.PiecesDropped, result.EndedAt)
	if err != nil {
		return errors.WithMessagef(err, "insert result '%s'", result.ID)
	}
	return nil
}

func (s *Store) TopScores(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.conn.Query(ctx, `
SELECT session, score, level
FROM results
ORDER BY score DESC, ended_at ASC
LIMIT $1`, limit)
	if err != nil {
		return nil, errors.WithMessage(err, "query top scores")
	}
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LeaderboardRow, error) {
		var r domain.LeaderboardRow
		err := row.Scan(&r.Session, &r.Score, &r.Level)
		return r, err
	})
	if err != nil {
		return nil, errors.WithMessage(err, "scan top scores")
	}
	return result, nil
}
