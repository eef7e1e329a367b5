package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Color is a 24-bit RGB value.
type Color uint32

const MaxColor = Color(0xFFFFFF)

// NewColor rejects values outside [0x000000, 0xFFFFFF].
func NewColor(v int) (Color, error) {
	if v < 0 || Color(v) > MaxColor {
		return 0, errors.WithMessagef(ErrInvalidColorFormat, "value %#x out of range", v)
	}
	return Color(v), nil
}

// ParseColor accepts hex with an optional "0x" or "#" prefix.
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(raw, "#"):
		raw = raw[1:]
	case strings.HasPrefix(raw, "0x"), strings.HasPrefix(raw, "0X"):
		raw = raw[2:]
	}
	if raw == "" {
		return 0, errors.WithMessagef(ErrInvalidColorFormat, "empty color '%s'", s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return 0, errors.WithMessagef(ErrInvalidColorFormat, "parse '%s'", s)
	}
	return NewColor(int(v))
}

func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string {
	return fmt.Sprintf("#%06X", uint32(c))
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
