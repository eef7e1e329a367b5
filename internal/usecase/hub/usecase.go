package hub

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/kiryu-dev/tetris/pkg/utils"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const resultsBufSize = 16

type session struct {
	id        string
	client    domain.Client
	game      domain.GameUseCase
	timer     *fallTimer
	startedAt time.Time
	mu        sync.Mutex
}

type useCase struct {
	newGame  domain.GameFactory
	sessions map[string]*session
	results  chan domain.GameResult
	active   *atomic.Int64
	mu       *sync.RWMutex
	logger   *zap.Logger
}

func New(newGame domain.GameFactory, logger *zap.Logger) *useCase {
	return &useCase{
		newGame:  newGame,
		sessions: make(map[string]*session),
		results:  make(chan domain.GameResult, resultsBufSize),
		active:   atomic.NewInt64(0),
		mu:       &sync.RWMutex{},
		logger:   logger,
	}
}

// Handle plays one session over client until the connection closes or ctx
// is done.
func (u *useCase) Handle(ctx context.Context, client domain.Client) error {
	s := u.register(client)
	defer u.unregister(s)

	snapshot := s.game.Snapshot()
	err := client.WriteMessage(domain.Message{
		Type: domain.Welcome,
		Payload: domain.WelcomePayload{
			Session: s.id,
			Rows:    snapshot.Rows,
			Cols:    snapshot.Cols,
		},
	})
	if err != nil {
		return errors.WithMessage(err, "write welcome message")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go u.runTicks(ctx, s)

	for {
		msg, err := client.ReadMessage()
		if errors.Is(err, domain.ErrConnectionClosed) {
			return nil
		}
		if errors.Is(err, domain.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return errors.WithMessage(err, "read client message")
		}
		if msg.Type != domain.CommandMessage {
			u.logger.Warn("unexpected message type", zap.String("session", s.id), zap.Any("type", msg.Type))
			continue
		}
		payload, err := utils.DecodePayload[domain.CommandPayload](msg.Payload)
		if err != nil {
			u.logger.Warn("decode command payload", zap.String("session", s.id), zap.Error(err))
			continue
		}
		snapshot, ok := u.apply(s, payload.Command)
		if !ok {
			continue
		}
		if err := u.push(s, snapshot); err != nil {
			return err
		}
	}
}

func (u *useCase) register(client domain.Client) *session {
	timer := newFallTimer()
	s := &session{
		id:        uuid.NewString(),
		client:    client,
		game:      u.newGame(timer),
		timer:     timer,
		startedAt: time.Now(),
	}
	u.mu.Lock()
	u.sessions[s.id] = s
	u.mu.Unlock()
	u.active.Inc()
	u.logger.Info("session opened", zap.String("session", s.id))
	return s
}

// unregister ends a game abandoned by its client so the result still counts.
func (u *useCase) unregister(s *session) {
	s.mu.Lock()
	before := s.game.State()
	s.game.End()
	snapshot := s.game.Snapshot()
	s.mu.Unlock()
	s.timer.Stop()
	u.emitResult(s, before, snapshot)

	u.mu.Lock()
	delete(u.sessions, s.id)
	u.mu.Unlock()
	u.active.Dec()
	u.logger.Info("session closed", zap.String("session", s.id))
}

func (u *useCase) apply(s *session, cmd domain.Command) (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.game.State()
	switch cmd {
	case domain.CommandStart:
		s.game.Start()
	case domain.CommandPause:
		s.game.Pause()
	case domain.CommandRecover:
		s.game.Recover()
	case domain.CommandEnd:
		s.game.End()
	default:
		t, ok := cmd.Transfer()
		if !ok {
			u.logger.Debug("ignore unknown command", zap.String("session", s.id), zap.String("command", string(cmd)))
			return domain.Snapshot{}, false
		}
		s.game.TryTransfer(t)
	}
	snapshot := s.game.Snapshot()
	u.emitResult(s, before, snapshot)
	return snapshot, true
}

func (u *useCase) runTicks(ctx context.Context, s *session) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.timer.C():
			s.mu.Lock()
			before := s.game.State()
			s.game.Tick()
			snapshot := s.game.Snapshot()
			u.emitResult(s, before, snapshot)
			s.mu.Unlock()
			if err := u.push(s, snapshot); err != nil {
				u.logger.Warn("push tick snapshot", zap.String("session", s.id), zap.Error(err))
				return
			}
		}
	}
}

func (u *useCase) push(s *session, snapshot domain.Snapshot) error {
	err := s.client.WriteMessage(domain.Message{
		Type:    domain.SnapshotMessage,
		Payload: snapshot,
	})
	if err != nil {
		return errors.WithMessage(err, "write snapshot message")
	}
	return nil
}

func (u *useCase) emitResult(s *session, before domain.GameState, snapshot domain.Snapshot) {
	if before == domain.End || snapshot.State != domain.End || snapshot.PiecesDropped == 0 {
		return
	}
	result := domain.GameResult{
		ID:            uuid.NewString(),
		Session:       s.id,
		Score:         snapshot.Score,
		Level:         snapshot.Level,
		LinesRemoved:  snapshot.LinesRemoved,
		PiecesDropped: snapshot.PiecesDropped,
		EndedAt:       time.Now(),
	}
	select {
	case u.results <- result:
	default:
		u.logger.Warn("results queue is full, dropping result", zap.String("session", s.id), zap.Int("score", result.Score))
	}
}

func (u *useCase) Results() <-chan domain.GameResult {
	return u.results
}

func (u *useCase) Sessions() []domain.SessionInfo {
	u.mu.RLock()
	infos := make([]domain.SessionInfo, 0, len(u.sessions))
	for _, s := range u.sessions {
		s.mu.Lock()
		snapshot := s.game.Snapshot()
		s.mu.Unlock()
		infos = append(infos, domain.SessionInfo{
			ID:        s.id,
			State:     snapshot.State,
			Score:     snapshot.Score,
			Level:     snapshot.Level,
			StartedAt: s.startedAt,
		})
	}
	u.mu.RUnlock()
	slices.SortFunc(infos, func(a, b domain.SessionInfo) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return infos
}

func (u *useCase) ActiveSessions() int64 {
	return u.active.Load()
}
