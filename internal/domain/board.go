package domain

import (
	"github.com/pkg/errors"
)

const (
	DefaultRows = 22
	DefaultCols = 10
)

// Cell is free iff Shape is ShapeNone.
type Cell struct {
	Shape Shape
	Color Color
}

func (c Cell) Occupied() bool {
	return c.Shape != ShapeNone
}

// Board is the occupancy grid. Row 0 is the bottom row, column 0 the left
// column. Each Board owns its own cells.
type Board struct {
	rows  int
	cols  int
	cells [][]Cell
}

func NewBoard(rows, cols int) *Board {
	b := &Board{}
	b.Reset(rows, cols)
	return b
}

// Reset reallocates the grid with the given size, all cells free.
func (b *Board) Reset(rows, cols int) {
	b.rows = rows
	b.cols = cols
	b.cells = make([][]Cell, rows)
	for i := range b.cells {
		b.cells[i] = make([]Cell, cols)
	}
}

// ClearAll frees every cell without reallocating.
func (b *Board) ClearAll() {
	for _, row := range b.cells {
		clear(row)
	}
}

func (b *Board) Rows() int {
	return b.rows
}

func (b *Board) Cols() int {
	return b.cols
}

func (b *Board) IsValidPosition(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Cell must only be called for a valid position.
func (b *Board) Cell(row, col int) Cell {
	return b.cells[row][col]
}

func (b *Board) IsFree(row, col int) bool {
	return !b.cells[row][col].Occupied()
}

func (b *Board) IsOccupied(row, col int) bool {
	return b.cells[row][col].Occupied()
}

// PieceToBoardCoords projects a piece square onto the grid. The piece origin
// sits at the horizontal center just above the top row.
func (b *Board) PieceToBoardCoords(s Square) (row, col int) {
	return s.Y + b.rows, s.X + b.cols/2
}

func (b *Board) IsPiecePlaceable(p Piece) bool {
	if p.IsNone() {
		panic(errors.WithMessage(ErrShapeIsNone, "check placement"))
	}
	for _, s := range p.Squares() {
		row, col := b.PieceToBoardCoords(s)
		if !b.IsValidPosition(row, col) || b.IsOccupied(row, col) {
			return false
		}
	}
	return true
}

// CommitPiece writes the piece into the grid. The caller must have checked
// IsPiecePlaceable for the same piece.
func (b *Board) CommitPiece(p Piece) {
	if p.IsNone() {
		panic(errors.WithMessage(ErrShapeIsNone, "commit piece"))
	}
	if !b.IsPiecePlaceable(p) {
		panic(errors.WithMessagef(ErrPieceNotPlaceable, "commit %s piece", p.Shape()))
	}
	for _, s := range p.Squares() {
		row, col := b.PieceToBoardCoords(s)
		b.cells[row][col] = Cell{Shape: p.Shape(), Color: p.Color()}
	}
}

// RemoveFullLines deletes every fully occupied row, moving the rows above it
// down, and returns how many rows were removed.
func (b *Board) RemoveFullLines() int {
	top := b.rows - 1
	for top >= 0 && b.isRowFree(top) {
		top--
	}
	removed := 0
	for row := top; row >= 0; row-- {
		if !b.isRowFull(row) {
			continue
		}
		freed := b.cells[row]
		copy(b.cells[row:top], b.cells[row+1:top+1])
		clear(freed)
		b.cells[top] = freed
		top--
		removed++
	}
	return removed
}

func (b *Board) isRowFull(row int) bool {
	for _, c := range b.cells[row] {
		if !c.Occupied() {
			return false
		}
	}
	return true
}

func (b *Board) isRowFree(row int) bool {
	for _, c := range b.cells[row] {
		if c.Occupied() {
			return false
		}
	}
	return true
}

// Cells returns a copy of the grid, indexed [row][col].
func (b *Board) Cells() [][]Cell {
	out := make([][]Cell, b.rows)
	for i, row := range b.cells {
		out[i] = append([]Cell(nil), row...)
	}
	return out
}

