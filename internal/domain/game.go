package domain

import (
	"time"

	"github.com/pkg/errors"
)

type GameState byte

const (
	End = GameState(iota)
	Run
	Pause
)

func (s GameState) String() string {
	switch s {
	case Run:
		return "run"
	case Pause:
		return "pause"
	default:
		return "end"
	}
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "end":
		*s = End
	case "run":
		*s = Run
	case "pause":
		*s = Pause
	default:
		return errors.Errorf("unknown game state '%s'", text)
	}
	return nil
}

// Transfer is a movement request applied to the current piece.
type Transfer byte

const (
	LineDown = Transfer(iota)
	DropToBottom
	ShiftLeft
	ShiftRight
	RotateClockwise
)

// Command is a host request: a lifecycle call or a Transfer.
type Command string

const (
	CommandStart           = Command("start")
	CommandPause           = Command("pause")
	CommandRecover         = Command("recover")
	CommandEnd             = Command("end")
	CommandShiftLeft       = Command("shift_left")
	CommandShiftRight      = Command("shift_right")
	CommandLineDown        = Command("line_down")
	CommandDropToBottom    = Command("drop_to_bottom")
	CommandRotateClockwise = Command("rotate_clockwise")
)

// Transfer maps movement commands to their Transfer.
func (c Command) Transfer() (Transfer, bool) {
	switch c {
	case CommandShiftLeft:
		return ShiftLeft, true
	case CommandShiftRight:
		return ShiftRight, true
	case CommandLineDown:
		return LineDown, true
	case CommandDropToBottom:
		return DropToBottom, true
	case CommandRotateClockwise:
		return RotateClockwise, true
	default:
		return 0, false
	}
}

const DefaultPiecesPerLevel = 25

type GameConfig struct {
	Rows           int
	Cols           int
	PiecesPerLevel int
	ClearDelay     time.Duration
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		Rows:           DefaultRows,
		Cols:           DefaultCols,
		PiecesPerLevel: DefaultPiecesPerLevel,
	}
}

// PlacedSquare is a piece square projected onto the board.
type PlacedSquare struct {
	Row   int
	Col   int
	Color Color
}

type Snapshot struct {
	State         GameState
	Score         int
	Level         int
	LinesRemoved  int
	PiecesDropped int
	Rows          int
	Cols          int
	Cells         [][]Cell
	CurrentShape  Shape
	Current       []PlacedSquare
	NextShape     Shape
	Next          []Square
}

type GameResult struct {
	ID            string
	Session       string
	Score         int
	Level         int
	LinesRemoved  int
	PiecesDropped int
	EndedAt       time.Time
}

// FallTimer is provided by the host. The controller decides the interval.
type FallTimer interface {
	Start(interval time.Duration)
	Stop()
}

type ShapeSource interface {
	Next() Shape
}

type GameUseCase interface {
	Start()
	Pause()
	Recover()
	End()
	TryTransfer(t Transfer) bool
	Tick()
	State() GameState
	Snapshot() Snapshot
}

// GameFactory builds a fresh controller for one session.
type GameFactory func(timer FallTimer) GameUseCase
