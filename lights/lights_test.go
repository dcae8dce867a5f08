package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff8000", Color{Red: 255, Green: 128}, false},
		{"00ff00", Color{Green: 255}, false},
		{"#000000", Off, false},
		{"#fff", Off, true},
		{"#gg0000", Off, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Color {
	t.Helper()
	c, err := ParseColor(s)
	require.NoError(t, err)
	return c
}

func TestMemoryStrip(t *testing.T) {
	red := Color{Red: 255}
	s := NewMemoryStrip(10, nil)

	require.NoError(t, s.SetRange(2, 4, red))
	assert.Equal(t, 3, s.Lit())
	assert.Equal(t, red, s.Pixel(3))
	assert.True(t, s.Pixel(5).IsOff())

	require.NoError(t, s.SetRange(3, 3, Off))
	assert.Equal(t, 2, s.Lit())

	require.NoError(t, s.SetPlayhead(6, White))
	assert.Equal(t, 6, s.Lit())
	assert.Equal(t, White, s.Pixel(0))
	assert.True(t, s.Pixel(6).IsOff())

	require.NoError(t, s.Clear())
	assert.Zero(t, s.Lit())

	assert.Error(t, s.SetRange(8, 10, red))
	assert.Error(t, s.SetRange(4, 2, red))
	assert.Error(t, s.SetPlayhead(11, red))
}
