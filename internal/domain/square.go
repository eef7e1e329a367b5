package domain

import (
	"github.com/pkg/errors"
)

// Square is a point of a piece together with its color. All operations
// return a new value.
type Square struct {
	X     int
	Y     int
	Color Color
}

func (s Square) Translate(dx, dy int) Square {
	s.X += dx
	s.Y += dy
	return s
}

func (s Square) RotateClockwise() Square {
	s.X, s.Y = s.Y, -s.X
	return s
}

func (s Square) RotateCounterClockwise() Square {
	s.X, s.Y = -s.Y, s.X
	return s
}

// Rotate turns the square clockwise about the origin. Negative angles turn
// counterclockwise. It panics unless angle is a multiple of 90.
func (s Square) Rotate(angle int) Square {
	for range quarterTurns(angle) {
		s = s.RotateClockwise()
	}
	return s
}

func (s Square) MirrorHorizontal() Square {
	s.X = -s.X
	return s
}

func (s Square) MirrorVertical() Square {
	s.Y = -s.Y
	return s
}

func (s Square) WithColor(c Color) Square {
	s.Color = c
	return s
}

// quarterTurns normalizes angle to the number of clockwise quarter turns in [0, 3].
func quarterTurns(angle int) int {
	if angle%90 != 0 {
		panic(errors.WithMessagef(ErrInvalidAngle, "angle %d", angle))
	}
	return ((angle%360 + 360) % 360) / 90
}
