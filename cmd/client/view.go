package main

import (
	"fmt"
	"sync"

	"github.com/JoelOtter/termloop"
	"github.com/kiryu-dev/tetris/internal/domain"
)

const previewSize = 4

var shapeColors = map[domain.Shape]termloop.Attr{
	domain.ShapeT: termloop.ColorYellow,
	domain.ShapeI: termloop.ColorBlue,
	domain.ShapeL: termloop.ColorCyan,
	domain.ShapeJ: termloop.ColorWhite,
	domain.ShapeO: termloop.ColorMagenta,
	domain.ShapeZ: termloop.ColorRed,
	domain.ShapeS: termloop.ColorGreen,
}

var keyCommands = map[termloop.Key]domain.Command{
	termloop.KeyArrowLeft:  domain.CommandShiftLeft,
	termloop.KeyArrowRight: domain.CommandShiftRight,
	termloop.KeyArrowUp:    domain.CommandRotateClockwise,
	termloop.KeyArrowDown:  domain.CommandLineDown,
	termloop.KeySpace:      domain.CommandDropToBottom,
}

var runeCommands = map[rune]domain.Command{
	's': domain.CommandStart,
	'p': domain.CommandPause,
	'r': domain.CommandRecover,
	'e': domain.CommandEnd,
}

// commandFor maps a key event to a command. Unmapped keys yield false.
func commandFor(ev termloop.Event) (domain.Command, bool) {
	if ev.Type != termloop.EventKey {
		return "", false
	}
	if ev.Ch != 0 {
		cmd, ok := runeCommands[ev.Ch]
		return cmd, ok
	}
	cmd, ok := keyCommands[ev.Key]
	return cmd, ok
}

// boardView is a termloop entity drawing the latest snapshot received from
// the server. Board row 0 is drawn at the bottom of the frame.
type boardView struct {
	x, y     int
	send     func(cmd domain.Command)
	snapshot domain.Snapshot
	status   string
	mu       sync.Mutex
	text     *termloop.Text
	help     *termloop.Text
}

func newBoardView(x, y int, send func(cmd domain.Command)) *boardView {
	return &boardView{
		x:    x,
		y:    y,
		send: send,
		snapshot: domain.Snapshot{
			Rows: domain.DefaultRows,
			Cols: domain.DefaultCols,
		},
		text: termloop.NewText(0, 0, "", termloop.ColorWhite, termloop.ColorDefault),
		help: termloop.NewText(0, 0, "s start  p pause  r resume  e end", termloop.ColorWhite, termloop.ColorDefault),
	}
}

func (v *boardView) Update(snapshot domain.Snapshot) {
	v.mu.Lock()
	v.snapshot = snapshot
	v.mu.Unlock()
}

func (v *boardView) SetStatus(status string) {
	v.mu.Lock()
	v.status = status
	v.mu.Unlock()
}

func (v *boardView) Tick(ev termloop.Event) {
	if cmd, ok := commandFor(ev); ok {
		v.send(cmd)
	}
}

// screenPos converts a board cell to screen coordinates inside the frame.
func (v *boardView) screenPos(rows, row, col int) (int, int) {
	return v.x + 1 + col, v.y + rows - row
}

func (v *boardView) Draw(s *termloop.Screen) {
	v.mu.Lock()
	snapshot, status := v.snapshot, v.status
	v.mu.Unlock()

	rows, cols := snapshot.Rows, snapshot.Cols
	border := &termloop.Cell{Fg: termloop.ColorWhite, Bg: termloop.ColorBlack, Ch: '+'}
	for i := 0; i < cols+2; i++ {
		s.RenderCell(v.x+i, v.y, border)
		s.RenderCell(v.x+i, v.y+rows+1, border)
	}
	for i := 0; i < rows+2; i++ {
		s.RenderCell(v.x, v.y+i, border)
		s.RenderCell(v.x+cols+1, v.y+i, border)
	}

	for row, line := range snapshot.Cells {
		for col, cell := range line {
			x, y := v.screenPos(rows, row, col)
			ch, fg := rune(0), termloop.ColorWhite
			if cell.Occupied() {
				ch, fg = '#', shapeColors[cell.Shape]
			}
			s.RenderCell(x, y, &termloop.Cell{Fg: fg, Bg: termloop.ColorBlack, Ch: ch})
		}
	}
	for _, sq := range snapshot.Current {
		x, y := v.screenPos(rows, sq.Row, sq.Col)
		s.RenderCell(x, y, &termloop.Cell{Fg: shapeColors[snapshot.CurrentShape], Bg: termloop.ColorBlack, Ch: '@'})
	}

	side := v.x + cols + 3
	for _, sq := range snapshot.Next {
		// Templates span -1..2 on both axes.
		x, y := side+1+sq.X, v.y+previewSize-1-sq.Y
		s.RenderCell(x, y, &termloop.Cell{Fg: shapeColors[snapshot.NextShape], Bg: termloop.ColorBlack, Ch: '@'})
	}

	lines := []string{
		fmt.Sprintf("State: %s", snapshot.State),
		fmt.Sprintf("Score: %d", snapshot.Score),
		fmt.Sprintf("Level: %d", snapshot.Level),
		fmt.Sprintf("Lines: %d", snapshot.LinesRemoved),
		status,
	}
	for i, line := range lines {
		v.text.SetPosition(side, v.y+previewSize+2+i)
		v.text.SetText(line)
		v.text.Draw(s)
	}
	v.help.SetPosition(side, v.y+previewSize+2+len(lines)+1)
	v.help.Draw(s)
}
