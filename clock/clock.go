// Package clock provides the wrapping millisecond counter the console runs on.
package clock

import "time"

// Clock reports milliseconds on a monotonic 32-bit counter. The counter wraps
// after ~49.7 days, so timestamps must only be compared through Elapsed.
type Clock interface {
	Millis() uint32
}

// Elapsed returns how many milliseconds have passed from since to now, correct
// across one counter wraparound.
func Elapsed(now, since uint32) uint32 {
	return now - since
}

// Reached reports whether at least d has passed from since to now.
func Reached(now, since uint32, d time.Duration) bool {
	return Elapsed(now, since) >= uint32(d.Milliseconds())
}

// System counts milliseconds from its creation using the monotonic clock.
type System struct {
	start time.Time
}

// NewSystem starts a system clock at zero.
func NewSystem() *System {
	return &System{start: time.Now()}
}

func (c *System) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// Manual is a clock advanced by hand.
type Manual struct {
	now uint32
}

// NewManual returns a manual clock reading start.
func NewManual(start uint32) *Manual {
	return &Manual{now: start}
}

func (c *Manual) Millis() uint32 { return c.now }

// Advance moves the clock forward by d, wrapping like the real counter.
func (c *Manual) Advance(d time.Duration) {
	c.now += uint32(d.Milliseconds())
}

// Set jumps the clock to ms.
func (c *Manual) Set(ms uint32) { c.now = ms }
