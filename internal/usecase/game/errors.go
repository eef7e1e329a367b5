package game

import (
	"github.com/pkg/errors"
)

var errNoCurrentPiece = errors.New("no current piece while running")
