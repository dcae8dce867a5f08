package controller

import (
	"touchless-console/clock"
	"touchless-console/lights"
)

// Zone is a channel's slice of the LED strip. Only the console touches it.
type Zone struct {
	From  int
	To    int
	Color lights.Color

	On       bool
	Playhead int

	flashing   bool
	flashSince uint32
}

// Len is the number of pixels in the zone.
func (z *Zone) Len() int { return z.To - z.From + 1 }

func (z *Zone) set(strip lights.Strip, on bool) error {
	c := lights.Off
	if on {
		c = z.Color
	}
	z.On = on
	return strip.SetRange(z.From, z.To, c)
}

// playhead lights the first count pixels of the zone and darkens the rest.
// Pixels outside the zone are never touched.
func (z *Zone) playhead(strip lights.Strip, count int) error {
	if count < 0 {
		count = 0
	}
	if count > z.Len() {
		count = z.Len()
	}
	z.Playhead = count
	z.On = count > 0

	if count > 0 {
		if err := strip.SetRange(z.From, z.From+count-1, z.Color); err != nil {
			return err
		}
	}
	if count < z.Len() {
		return strip.SetRange(z.From+count, z.To, lights.Off)
	}
	return nil
}

func (z *Zone) startFlash(now uint32) {
	z.flashing = true
	z.flashSince = now
}

// flashDone reports whether a running flash has lasted its duration.
func (z *Zone) flashDone(now uint32, flash uint32) bool {
	return z.flashing && clock.Elapsed(now, z.flashSince) >= flash
}

func (z *Zone) reset() {
	z.On = false
	z.Playhead = 0
	z.flashing = false
}

// scalePlayhead maps value in [lo,hi] onto 1..n pixels. Zero stays dark.
func scalePlayhead(value int32, lo, hi, n int) int {
	if value <= 0 || n <= 0 {
		return 0
	}
	if hi <= lo {
		return n
	}
	count := (int(value) - lo + 1) * n / (hi - lo + 1)
	if count < 1 {
		count = 1
	}
	if count > n {
		count = n
	}
	return count
}
