package domain

import (
	"context"
	"time"
)

type SessionInfo struct {
	ID        string
	State     GameState
	Score     int
	Level     int
	StartedAt time.Time
}

type HubUseCase interface {
	Handle(ctx context.Context, client Client) error
	Sessions() []SessionInfo
	ActiveSessions() int64
}
