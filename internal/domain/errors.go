package domain

import (
	"github.com/pkg/errors"
)

var (
	ErrShapeIsNone        = errors.New("piece has no shape")
	ErrInvalidAngle       = errors.New("angle is not a multiple of 90")
	ErrInvalidColorFormat = errors.New("invalid color format")
	ErrEmptyPiece         = errors.New("empty piece")
	ErrPieceNotPlaceable  = errors.New("piece is not placeable")
)
