package domain

import (
	"github.com/pkg/errors"
)

// Piece is an immutable tetromino. Its squares are always derived from the
// shape template and the accumulated transform, so repeated transforms never
// drift.
type Piece struct {
	shape   Shape
	dx, dy  int
	angle   int
	flipH   bool
	flipV   bool
	squares [4]Square
}

// NewPiece returns a piece of the given shape in template position.
func NewPiece(shape Shape) Piece {
	if !shape.Valid() {
		shape = ShapeNone
	}
	p := Piece{shape: shape}
	p.build()
	return p
}

func (p Piece) Shape() Shape {
	return p.shape
}

func (p Piece) Color() Color {
	return p.shape.Color()
}

func (p Piece) IsNone() bool {
	return p.shape == ShapeNone
}

func (p Piece) Squares() [4]Square {
	return p.squares
}

// Offset returns the accumulated translation.
func (p Piece) Offset() (dx, dy int) {
	return p.dx, p.dy
}

// Angle returns the accumulated clockwise rotation in [0, 360).
func (p Piece) Angle() int {
	return p.angle
}

// Transform returns a copy rotated clockwise by angle about the piece origin
// and then moved by (dx, dy). It panics if angle is not a multiple of 90.
// O and None pieces ignore rotation; None pieces ignore everything.
func (p Piece) Transform(dx, dy, angle int) Piece {
	turns := quarterTurns(angle)
	if p.shape == ShapeNone {
		return p
	}
	if p.shape != ShapeO {
		p.angle = (p.angle + turns*90) % 360
	}
	p.dx += dx
	p.dy += dy
	p.build()
	return p
}

// Mirror returns a copy flipped about the vertical axis (horizontal) and/or
// the horizontal axis (vertical). O and None pieces are unaffected.
func (p Piece) Mirror(horizontal, vertical bool) Piece {
	if p.shape == ShapeNone || p.shape == ShapeO {
		return p
	}
	p.flipH = p.flipH != horizontal
	p.flipV = p.flipV != vertical
	p.build()
	return p
}

func (p *Piece) build() {
	t := shapeTable[p.shape]
	for i, off := range t.offsets {
		sq := Square{X: off[0], Y: off[1], Color: t.color}
		if p.flipH {
			sq = sq.MirrorHorizontal()
		}
		if p.flipV {
			sq = sq.MirrorVertical()
		}
		p.squares[i] = sq.Rotate(p.angle).Translate(p.dx, p.dy)
	}
}

func (p Piece) LeftmostX() int {
	return p.bound(func(s Square) int { return s.X }, less)
}

func (p Piece) RightmostX() int {
	return p.bound(func(s Square) int { return s.X }, greater)
}

func (p Piece) BottomY() int {
	return p.bound(func(s Square) int { return s.Y }, less)
}

func (p Piece) TopY() int {
	return p.bound(func(s Square) int { return s.Y }, greater)
}

func (p Piece) Width() int {
	return p.RightmostX() - p.LeftmostX() + 1
}

func (p Piece) Height() int {
	return p.TopY() - p.BottomY() + 1
}

func less(a, b int) bool    { return a < b }
func greater(a, b int) bool { return a > b }

func (p Piece) bound(coord func(Square) int, better func(a, b int) bool) int {
	if p.shape == ShapeNone {
		panic(errors.WithMessage(ErrEmptyPiece, "bounding box"))
	}
	v := coord(p.squares[0])
	for _, s := range p.squares[1:] {
		if c := coord(s); better(c, v) {
			v = c
		}
	}
	return v
}
