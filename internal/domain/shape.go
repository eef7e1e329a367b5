package domain

import (
	"math/rand"

	"github.com/pkg/errors"
)

type Shape byte

const (
	ShapeNone = Shape(iota)
	ShapeT
	ShapeI
	ShapeL
	ShapeJ
	ShapeO
	ShapeZ
	ShapeS
)

// Shapes lists the playable shapes, ShapeNone excluded.
var Shapes = [...]Shape{ShapeT, ShapeI, ShapeL, ShapeJ, ShapeO, ShapeZ, ShapeS}

type shapeTemplate struct {
	name    string
	color   Color
	offsets [4][2]int
}

var shapeTable = [...]shapeTemplate{
	ShapeNone: {"None", 0x000000, [4][2]int{{0, 0}, {0, 0}, {0, 0}, {0, 0}}},
	ShapeT:    {"T", 0xCCCC66, [4][2]int{{-1, 0}, {0, 0}, {1, 0}, {0, 1}}},
	ShapeI:    {"I", 0x6666CC, [4][2]int{{0, -1}, {0, 0}, {0, 1}, {0, 2}}},
	ShapeL:    {"L", 0x66CCCC, [4][2]int{{-1, -1}, {0, -1}, {0, 0}, {0, 1}}},
	ShapeJ:    {"J", 0xDAAA00, [4][2]int{{1, -1}, {0, -1}, {0, 0}, {0, 1}}},
	ShapeO:    {"O", 0xCC66CC, [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	ShapeZ:    {"Z", 0xCC6666, [4][2]int{{0, -1}, {0, 0}, {-1, 0}, {-1, 1}}},
	ShapeS:    {"S", 0x66CC66, [4][2]int{{0, -1}, {0, 0}, {1, 0}, {1, 1}}},
}

func (s Shape) Valid() bool {
	return s > ShapeNone && s <= ShapeS
}

func (s Shape) Color() Color {
	if int(s) >= len(shapeTable) {
		return shapeTable[ShapeNone].color
	}
	return shapeTable[s].color
}

func (s Shape) String() string {
	if int(s) >= len(shapeTable) {
		return shapeTable[ShapeNone].name
	}
	return shapeTable[s].name
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	for i, t := range shapeTable {
		if t.name == string(text) {
			*s = Shape(i)
			return nil
		}
	}
	return errors.Errorf("unknown shape '%s'", text)
}

// RandomShape picks one of the seven playable shapes uniformly.
func RandomShape(r *rand.Rand) Shape {
	return Shapes[r.Intn(len(Shapes))]
}
