package clock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsedAcrossWrap(t *testing.T) {
	tests := []struct {
		name  string
		now   uint32
		since uint32
		want  uint32
	}{
		{"plain", 1500, 1000, 500},
		{"zero", 42, 42, 0},
		{"wrapped", 99, math.MaxUint32 - 100, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Elapsed(tt.now, tt.since))
		})
	}
}

func TestReached(t *testing.T) {
	assert.True(t, Reached(1200, 1000, 200*time.Millisecond))
	assert.False(t, Reached(1199, 1000, 200*time.Millisecond))
	assert.True(t, Reached(150, math.MaxUint32-49, 200*time.Millisecond))
}

func TestManualAdvanceWraps(t *testing.T) {
	c := NewManual(math.MaxUint32 - 9)
	c.Advance(20 * time.Millisecond)
	assert.Equal(t, uint32(10), c.Millis())

	c.Set(5)
	assert.Equal(t, uint32(5), c.Millis())
}
