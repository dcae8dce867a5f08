package lights

import (
	"fmt"
	"strconv"
	"strings"
)

// Strip is the LED collaborator the console drives. Pixel indexes are
// inclusive on both ends.
type Strip interface {
	// SetRange paints pixels from..to with c. Off turns them dark.
	SetRange(from, to int, c Color) error
	// SetPlayhead lights the first count pixels of the strip with c.
	SetPlayhead(count int, c Color) error
	// Clear turns every pixel off.
	Clear() error
}

// Color is an RGB triple.
type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

var (
	Off   = Color{}
	White = Color{Red: 255, Green: 255, Blue: 255}
)

func (c Color) IsOff() bool { return c == Off }

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

// ParseColor reads "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Off, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Off, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{Red: uint8(v >> 16), Green: uint8(v >> 8), Blue: uint8(v)}, nil
}
