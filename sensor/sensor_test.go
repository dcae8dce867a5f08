package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimReadings(t *testing.T) {
	s := NewSim(99)
	assert.Equal(t, 99, s.Read(0))

	s.Set(0, 12)
	s.Set(3, 40)
	assert.Equal(t, 12, s.Read(0))
	assert.Equal(t, 40, s.Read(3))
	assert.Equal(t, 99, s.Read(1))

	s.Clear()
	assert.Equal(t, 99, s.Read(3))
}

func TestMCP3008RejectsPinsOffChip(t *testing.T) {
	m := &MCP3008{}
	assert.Equal(t, 0, m.Read(-1))
	assert.Equal(t, 0, m.Read(8))
}
