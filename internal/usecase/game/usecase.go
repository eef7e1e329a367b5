package game

import (
	"time"

	"github.com/kiryu-dev/tetris/internal/domain"
	"go.uber.org/zap"
)

const (
	pointsPerPiece = 1
	pointsPerLine  = 10
)

type useCase struct {
	cfg    domain.GameConfig
	board  *domain.Board
	timer  domain.FallTimer
	source domain.ShapeSource
	logger *zap.Logger

	state         domain.GameState
	current       domain.Piece
	next          domain.Piece
	score         int
	level         int
	linesRemoved  int
	piecesDropped int
	spawnPending  bool
}

func New(cfg domain.GameConfig, timer domain.FallTimer, source domain.ShapeSource, logger *zap.Logger) *useCase {
	if cfg.PiecesPerLevel < 1 {
		cfg.PiecesPerLevel = domain.DefaultPiecesPerLevel
	}
	return &useCase{
		cfg:     cfg,
		board:   domain.NewBoard(cfg.Rows, cfg.Cols),
		timer:   timer,
		source:  source,
		logger:  logger,
		state:   domain.End,
		current: domain.NewPiece(domain.ShapeNone),
		next:    domain.NewPiece(domain.ShapeNone),
		level:   1,
	}
}

// Interval is the fall period for a level: 1000ms / (1 + level), never
// below one millisecond.
func Interval(level int) time.Duration {
	return time.Duration(max(1000/(1+level), 1)) * time.Millisecond
}

func (u *useCase) Start() {
	switch u.state {
	case domain.Pause:
		u.Recover()
		return
	case domain.Run:
		return
	}
	u.score = 0
	u.level = 1
	u.linesRemoved = 0
	u.piecesDropped = 0
	u.spawnPending = false
	u.board.ClearAll()
	u.current = domain.NewPiece(domain.ShapeNone)
	u.next = domain.NewPiece(u.source.Next())
	u.setState(domain.Run)
	if !u.spawnNext() {
		return
	}
	u.timer.Start(Interval(u.level))
}

func (u *useCase) Pause() {
	if u.state != domain.Run {
		return
	}
	u.timer.Stop()
	u.setState(domain.Pause)
}

func (u *useCase) Recover() {
	if u.state != domain.Pause {
		return
	}
	u.setState(domain.Run)
	u.timer.Start(Interval(u.level))
}

func (u *useCase) End() {
	if u.state == domain.End {
		return
	}
	u.timer.Stop()
	u.setState(domain.End)
}

// Tick advances the game by one fall step, or shows the next piece when a
// line clear delayed its spawn.
func (u *useCase) Tick() {
	if u.state != domain.Run {
		return
	}
	if u.spawnPending {
		u.spawnPending = false
		if u.spawnNext() {
			u.timer.Start(Interval(u.level))
		}
		return
	}
	u.TryTransfer(domain.LineDown)
}

// TryTransfer applies t to the current piece. It reports whether the piece
// moved. A rejected downward move lands the piece.
func (u *useCase) TryTransfer(t domain.Transfer) bool {
	if u.state != domain.Run || u.spawnPending {
		return false
	}
	if u.current.IsNone() {
		panic(errNoCurrentPiece)
	}
	var candidate domain.Piece
	switch t {
	case domain.LineDown:
		candidate = u.current.Transform(0, -1, 0)
	case domain.DropToBottom:
		candidate = u.dropTarget()
	case domain.ShiftLeft:
		candidate = u.current.Transform(-1, 0, 0)
	case domain.ShiftRight:
		candidate = u.current.Transform(1, 0, 0)
	case domain.RotateClockwise:
		candidate = u.current.Transform(0, 0, 90)
	default:
		return false
	}
	if candidate != u.current && u.board.IsPiecePlaceable(candidate) {
		u.current = candidate
		return true
	}
	if t == domain.LineDown || t == domain.DropToBottom {
		u.pieceArrived()
	}
	return false
}

// dropTarget returns the lowest placeable position straight below the
// current piece, which is the current piece itself when it already rests.
func (u *useCase) dropTarget() domain.Piece {
	target := u.current
	for {
		below := target.Transform(0, -1, 0)
		if !u.board.IsPiecePlaceable(below) {
			return target
		}
		target = below
	}
}

func (u *useCase) pieceArrived() {
	u.board.CommitPiece(u.current)
	removed := u.board.RemoveFullLines()
	u.piecesDropped++
	u.linesRemoved += removed
	u.score += pointsPerPiece + pointsPerLine*removed

	levelChanged := false
	if level := 1 + u.piecesDropped/u.cfg.PiecesPerLevel; level != u.level {
		u.level = level
		levelChanged = true
		u.logger.Debug("level up", zap.Int("level", u.level))
	}

	if removed > 0 && u.cfg.ClearDelay > 0 {
		u.current = domain.NewPiece(domain.ShapeNone)
		u.spawnPending = true
		u.timer.Start(u.cfg.ClearDelay)
		return
	}
	if u.spawnNext() && levelChanged {
		u.timer.Start(Interval(u.level))
	}
}

// spawnNext moves the queued piece to the top of the board. When it does
// not fit the game is over.
func (u *useCase) spawnNext() bool {
	candidate := u.next.Transform(0, -1-u.next.TopY(), 0)
	if !u.board.IsPiecePlaceable(candidate) {
		u.current = domain.NewPiece(domain.ShapeNone)
		u.timer.Stop()
		u.setState(domain.End)
		u.logger.Info("game over",
			zap.Int("score", u.score),
			zap.Int("level", u.level),
			zap.Int("lines_removed", u.linesRemoved),
			zap.Int("pieces_dropped", u.piecesDropped),
		)
		return false
	}
	u.current = candidate
	u.next = domain.NewPiece(u.source.Next())
	return true
}

func (u *useCase) setState(state domain.GameState) {
	if u.state == state {
		return
	}
	u.logger.Debug("game state changed",
		zap.Stringer("from", u.state),
		zap.Stringer("to", state),
	)
	u.state = state
}

func (u *useCase) State() domain.GameState {
	return u.state
}

func (u *useCase) Score() int {
	return u.score
}

func (u *useCase) Level() int {
	return u.level
}

func (u *useCase) LinesRemoved() int {
	return u.linesRemoved
}

func (u *useCase) PiecesDropped() int {
	return u.piecesDropped
}

func (u *useCase) CurrentPiece() domain.Piece {
	return u.current
}

func (u *useCase) NextPiece() domain.Piece {
	return u.next
}

func (u *useCase) Snapshot() domain.Snapshot {
	s := domain.Snapshot{
		State:         u.state,
		Score:         u.score,
		Level:         u.level,
		LinesRemoved:  u.linesRemoved,
		PiecesDropped: u.piecesDropped,
		Rows:          u.board.Rows(),
		Cols:          u.board.Cols(),
		Cells:         u.board.Cells(),
		CurrentShape:  u.current.Shape(),
		NextShape:     u.next.Shape(),
	}
	if !u.current.IsNone() {
		for _, sq := range u.current.Squares() {
			row, col := u.board.PieceToBoardCoords(sq)
			s.Current = append(s.Current, domain.PlacedSquare{Row: row, Col: col, Color: sq.Color})
		}
	}
	if !u.next.IsNone() {
		sq := u.next.Squares()
		s.Next = sq[:]
	}
	return s
}

var _ domain.GameUseCase = (*useCase)(nil)
