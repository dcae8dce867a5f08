//go:build noserial

package lights

import "fmt"

// SerialStrip implements Strip for serial LED controllers
type SerialStrip struct{}

// NewSerialStrip creates a new SerialStrip instance
func NewSerialStrip(port string, baudRate int) *SerialStrip {
	return &SerialStrip{}
}

func (l *SerialStrip) SetRange(from, to int, c Color) error {
	return fmt.Errorf("serial port support not available in this build")
}

func (l *SerialStrip) SetPlayhead(count int, c Color) error {
	return fmt.Errorf("serial port support not available in this build")
}

func (l *SerialStrip) Clear() error {
	return fmt.Errorf("serial port support not available in this build")
}

func (l *SerialStrip) Close() error {
	return nil
}
