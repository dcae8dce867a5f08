//go:build !noserial

package lights

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// SerialStrip implements Strip for an LED controller listening on its own
// serial port.
type SerialStrip struct {
	port     string
	baudRate int
	w        io.WriteCloser
}

// NewSerialStrip creates a SerialStrip. The port is opened on first use.
func NewSerialStrip(port string, baudRate int) *SerialStrip {
	return &SerialStrip{
		port:     port,
		baudRate: baudRate,
	}
}

// newWriterStrip wraps an already open writer.
func newWriterStrip(w io.WriteCloser) *SerialStrip {
	return &SerialStrip{w: w}
}

func (l *SerialStrip) openPort() (io.Writer, error) {
	if l.w != nil {
		return l.w, nil
	}
	c := &serial.Config{
		Name: l.port,
		Baud: l.baudRate,
	}
	s, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("failed to open strip port %s: %w", l.port, err)
	}
	l.w = s
	return s, nil
}

func (l *SerialStrip) SetRange(from, to int, c Color) error {
	if from > to {
		return fmt.Errorf("invalid pixel range %d..%d", from, to)
	}
	s, err := l.openPort()
	if err != nil {
		return err
	}
	return sendCommand(s, cmdRange, from, to, c.Red, c.Green, c.Blue)
}

func (l *SerialStrip) SetPlayhead(count int, c Color) error {
	if count < 0 {
		return fmt.Errorf("invalid playhead count: %d", count)
	}
	s, err := l.openPort()
	if err != nil {
		return err
	}
	return sendCommand(s, cmdPlayhead, count, c.Red, c.Green, c.Blue)
}

func (l *SerialStrip) Clear() error {
	s, err := l.openPort()
	if err != nil {
		return err
	}
	return sendCommand(s, cmdClear)
}

// Close releases the serial port if it was opened.
func (l *SerialStrip) Close() error {
	if l.w == nil {
		return nil
	}
	err := l.w.Close()
	l.w = nil
	return err
}
