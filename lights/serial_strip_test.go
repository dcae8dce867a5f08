//go:build !noserial

package lights

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestSerialStripWireFormat(t *testing.T) {
	buf := &bufferCloser{}
	s := newWriterStrip(buf)

	require.NoError(t, s.SetRange(0, 7, Color{Red: 10, Green: 20, Blue: 30}))
	require.NoError(t, s.SetPlayhead(3, White))
	require.NoError(t, s.Clear())
	assert.Error(t, s.SetRange(5, 1, White))

	assert.Equal(t, "range 0 7 10 20 30\nplayhead 3 255 255 255\nclear\n", buf.String())

	require.NoError(t, s.Close())
	assert.True(t, buf.closed)
}
