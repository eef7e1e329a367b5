package domain

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positions(p Piece) [][2]int {
	out := make([][2]int, 0, 4)
	for _, s := range p.Squares() {
		out = append(out, [2]int{s.X, s.Y})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

func TestNewPieceTemplates(t *testing.T) {
	tests := []struct {
		shape   Shape
		color   Color
		offsets [4][2]int
	}{
		{ShapeT, 0xCCCC66, [4][2]int{{-1, 0}, {0, 0}, {1, 0}, {0, 1}}},
		{ShapeI, 0x6666CC, [4][2]int{{0, -1}, {0, 0}, {0, 1}, {0, 2}}},
		{ShapeL, 0x66CCCC, [4][2]int{{-1, -1}, {0, -1}, {0, 0}, {0, 1}}},
		{ShapeJ, 0xDAAA00, [4][2]int{{1, -1}, {0, -1}, {0, 0}, {0, 1}}},
		{ShapeO, 0xCC66CC, [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
		{ShapeZ, 0xCC6666, [4][2]int{{0, -1}, {0, 0}, {-1, 0}, {-1, 1}}},
		{ShapeS, 0x66CC66, [4][2]int{{0, -1}, {0, 0}, {1, 0}, {1, 1}}},
		{ShapeNone, 0x000000, [4][2]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			p := NewPiece(tt.shape)
			assert.Equal(t, tt.shape, p.Shape())
			assert.Equal(t, tt.color, p.Color())
			for i, s := range p.Squares() {
				assert.Equal(t, tt.offsets[i][0], s.X)
				assert.Equal(t, tt.offsets[i][1], s.Y)
				assert.Equal(t, tt.color, s.Color, "all squares share the shape color")
			}
		})
	}
}

func TestNewPieceUnknownShapeIsNone(t *testing.T) {
	assert.True(t, NewPiece(Shape(42)).IsNone())
}

func TestPieceTransformInverse(t *testing.T) {
	for _, shape := range append(Shapes[:], ShapeNone) {
		for _, angle := range []int{0, 90, 180, 270, 360, -90, 450} {
			p := NewPiece(shape).Transform(2, -3, 0)
			inverse := ((-angle % 360) + 360) % 360
			got := p.Transform(0, 0, angle).Transform(0, 0, inverse)
			assert.Equal(t, positions(p), positions(got), "%s rotated by %d and back", shape, angle)
		}
	}
}

func TestPieceFourRotationsIsIdentity(t *testing.T) {
	for _, shape := range Shapes {
		p := NewPiece(shape).Transform(-4, 7, 0)
		got := p
		for range 4 {
			got = got.Transform(0, 0, 90)
		}
		assert.Equal(t, p.Squares(), got.Squares(), shape.String())
		assert.Equal(t, 0, got.Angle())
	}
}

func TestPieceRotationInvariantShapes(t *testing.T) {
	for _, shape := range []Shape{ShapeO, ShapeNone} {
		p := NewPiece(shape)
		for _, angle := range []int{90, 180, 270, -90} {
			assert.Equal(t, p.Squares(), p.Transform(0, 0, angle).Squares(), "%s by %d", shape, angle)
		}
	}
	none := NewPiece(ShapeNone)
	assert.Equal(t, none, none.Transform(3, 3, 90), "None ignores translation too")
}

func TestPieceTransformRotatesAboutPieceOrigin(t *testing.T) {
	p := NewPiece(ShapeT).Transform(5, 5, 0).Transform(0, 0, 90)
	want := [][2]int{{5, 4}, {5, 5}, {5, 6}, {6, 5}}
	assert.Equal(t, want, positions(p))
	dx, dy := p.Offset()
	assert.Equal(t, 5, dx)
	assert.Equal(t, 5, dy)
	assert.Equal(t, 90, p.Angle())
}

func TestPieceTransformDoesNotMutate(t *testing.T) {
	p := NewPiece(ShapeL)
	before := p.Squares()
	_ = p.Transform(1, 1, 90)
	assert.Equal(t, before, p.Squares())
}

func TestPieceTransformInvalidAngle(t *testing.T) {
	assert.Panics(t, func() { NewPiece(ShapeT).Transform(0, 0, 45) })
	assert.Panics(t, func() { NewPiece(ShapeNone).Transform(0, 0, 10) })
}

func TestPieceMirror(t *testing.T) {
	assert.Equal(t, positions(NewPiece(ShapeJ)), positions(NewPiece(ShapeL).Mirror(true, false)))
	assert.Equal(t, positions(NewPiece(ShapeZ)), positions(NewPiece(ShapeS).Mirror(true, false)))

	l := NewPiece(ShapeL)
	assert.Equal(t, l.Squares(), l.Mirror(true, true).Mirror(true, true).Squares())
	assert.Equal(t, ShapeL, l.Mirror(true, false).Shape(), "mirroring keeps the shape id")
	assert.Equal(t, NewPiece(ShapeO).Squares(), NewPiece(ShapeO).Mirror(true, true).Squares())
}

func TestPieceBoundingBox(t *testing.T) {
	p := NewPiece(ShapeT)
	assert.Equal(t, -1, p.LeftmostX())
	assert.Equal(t, 1, p.RightmostX())
	assert.Equal(t, 0, p.BottomY())
	assert.Equal(t, 1, p.TopY())
	assert.Equal(t, 3, p.Width())
	assert.Equal(t, 2, p.Height())

	i := NewPiece(ShapeI).Transform(0, 0, 90)
	assert.Equal(t, 4, i.Width())
	assert.Equal(t, 1, i.Height())
}

func TestPieceBoundingBoxNone(t *testing.T) {
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrEmptyPiece)
	}()
	NewPiece(ShapeNone).Width()
}

func TestRandomShapeNeverNone(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	seen := make(map[Shape]int)
	for range 700 {
		s := RandomShape(r)
		require.True(t, s.Valid())
		seen[s]++
	}
	assert.Len(t, seen, len(Shapes))
}

func TestShapeText(t *testing.T) {
	for _, shape := range append(Shapes[:], ShapeNone) {
		text, err := shape.MarshalText()
		require.NoError(t, err)
		var got Shape
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, shape, got)
	}
	var s Shape
	assert.Error(t, s.UnmarshalText([]byte("Q")))
}
