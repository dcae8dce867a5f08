package sensor

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

const (
	mcp3008Channels = 8
	mcp3008SpeedHz  = 1350000
)

// MCP3008 reads analog proximity sensors through an MCP3008 ADC on the
// Raspberry Pi SPI0 bus. Pins are ADC channels 0-7; readings are 0-1023.
type MCP3008 struct {
	chipSelect uint8
	buf        [3]byte
}

// OpenMCP3008 maps the Pi's GPIO memory and starts SPI0.
func OpenMCP3008(chipSelect uint8) (*MCP3008, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open gpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("failed to start spi: %w", err)
	}
	rpio.SpiSpeed(mcp3008SpeedHz)
	rpio.SpiChipSelect(chipSelect)
	return &MCP3008{chipSelect: chipSelect}, nil
}

// Read does a single-ended conversion on channel pin. Pins outside 0-7 read 0.
func (m *MCP3008) Read(pin int) int {
	if pin < 0 || pin >= mcp3008Channels {
		return 0
	}
	// start bit, single-ended + channel, then clock out 10 result bits
	m.buf = [3]byte{0x01, byte(0x08|pin) << 4, 0x00}
	rpio.SpiExchange(m.buf[:])
	return int(m.buf[1]&0x03)<<8 | int(m.buf[2])
}

// Close stops SPI and unmaps GPIO memory.
func (m *MCP3008) Close() error {
	rpio.SpiEnd(rpio.Spi0)
	return rpio.Close()
}
