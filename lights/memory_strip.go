package lights

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// MemoryStrip implements Strip by keeping pixel state in memory. It stands in
// for a real strip when none is attached, logging each change at debug level.
type MemoryStrip struct {
	pixels []Color
	log    logrus.FieldLogger
}

// NewMemoryStrip creates a strip of n dark pixels. log may be nil.
func NewMemoryStrip(n int, log logrus.FieldLogger) *MemoryStrip {
	return &MemoryStrip{
		pixels: make([]Color, n),
		log:    log,
	}
}

func (l *MemoryStrip) SetRange(from, to int, c Color) error {
	if from < 0 || to >= len(l.pixels) || from > to {
		return fmt.Errorf("pixel range %d..%d outside strip of %d", from, to, len(l.pixels))
	}
	for i := from; i <= to; i++ {
		l.pixels[i] = c
	}
	l.debug("range", logrus.Fields{"from": from, "to": to, "color": c})
	return nil
}

func (l *MemoryStrip) SetPlayhead(count int, c Color) error {
	if count < 0 || count > len(l.pixels) {
		return fmt.Errorf("playhead %d outside strip of %d", count, len(l.pixels))
	}
	for i := range l.pixels {
		if i < count {
			l.pixels[i] = c
		} else {
			l.pixels[i] = Off
		}
	}
	l.debug("playhead", logrus.Fields{"count": count, "color": c})
	return nil
}

func (l *MemoryStrip) Clear() error {
	for i := range l.pixels {
		l.pixels[i] = Off
	}
	l.debug("clear", nil)
	return nil
}

// Pixel returns the color of pixel i.
func (l *MemoryStrip) Pixel(i int) Color { return l.pixels[i] }

// Len is the number of pixels.
func (l *MemoryStrip) Len() int { return len(l.pixels) }

// Lit counts pixels that are not off.
func (l *MemoryStrip) Lit() int {
	n := 0
	for _, p := range l.pixels {
		if !p.IsOff() {
			n++
		}
	}
	return n
}

func (l *MemoryStrip) debug(op string, fields logrus.Fields) {
	if l.log == nil {
		return
	}
	l.log.WithFields(fields).Debugf("strip %s", op)
}

// Close is a no-op.
func (l *MemoryStrip) Close() error { return nil }
