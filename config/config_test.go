package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, 200*time.Millisecond, cfg.Timing.TriggerDelay())
	assert.Equal(t, 500*time.Millisecond, cfg.Timing.RemovalDelay())
	assert.Equal(t, 10*time.Second, cfg.Timing.Heartbeat())
	assert.Equal(t, time.Second, cfg.Timing.StartupDelay())
	assert.Len(t, cfg.Channels, 6)
	assert.True(t, cfg.Channels[0].IsEnabled())
}

func TestLoadExampleFile(t *testing.T) {
	cfg, err := Load("console.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, SensorMCP3008, cfg.Sensor.Driver)
	assert.Equal(t, LEDSerial, cfg.LEDs.Driver)
	assert.Equal(t, 8, cfg.Smoothing)
	require.Len(t, cfg.Channels, 6)
	assert.Equal(t, "/cent/cns/drum/kit/2", cfg.Channels[3].Address)
	assert.False(t, cfg.Channels[5].IsEnabled())
	assert.Equal(t, []int{2, 3, 4}, cfg.RadioGroups[0].Members)
	assert.Len(t, cfg.Commands, 4)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "timing:\n  heartbeatSec: 3\nlog:\n  level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Timing.Heartbeat())
	assert.Equal(t, 200, cfg.Timing.TriggerConfirmMs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Len(t, cfg.Channels, 6)
	assert.Len(t, cfg.RadioGroups, 1)
}

func TestChannelsInFileReplaceDefaultLayout(t *testing.T) {
	path := writeConfig(t, `
channels:
  - {pin: 0, address: /solo, min: 1, max: 9, behavior: momentary, zone: {from: 0, to: 3}}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Channels, 1)
	assert.Empty(t, cfg.RadioGroups)
	assert.Empty(t, cfg.Commands)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("non-existent-file.yaml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONSOLE_SERIAL_PORT", "/dev/ttyS9")
	t.Setenv("CONSOLE_SERIAL_BAUD", "115200")
	t.Setenv("CONSOLE_LOG_LEVEL", "warn")
	t.Setenv("CONSOLE_SENSOR_DRIVER", "sim")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyS9", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no port", func(c *Config) { c.Serial.Port = "" }},
		{"zero baud", func(c *Config) { c.Serial.Baud = 0 }},
		{"zero tick", func(c *Config) { c.Timing.TickMs = 0 }},
		{"zero flash", func(c *Config) { c.Timing.FlashMs = 0 }},
		{"negative startup delay", func(c *Config) { c.Timing.StartupDelayMs = -1 }},
		{"smoothing too large", func(c *Config) { c.Smoothing = 100 }},
		{"bad sensor driver", func(c *Config) { c.Sensor.Driver = "laser" }},
		{"serial leds without port", func(c *Config) { c.LEDs.Driver = LEDSerial }},
		{"no channels", func(c *Config) { c.Channels = nil }},
		{"bad behavior", func(c *Config) { c.Channels[0].Behavior = "latch" }},
		{"address with space", func(c *Config) { c.Channels[0].Address = "/a b" }},
		{"inverted threshold", func(c *Config) { c.Channels[0].Min = 50 }},
		{"zone off strip", func(c *Config) { c.Channels[0].Zone.To = 40 }},
		{"bad zone color", func(c *Config) { c.Channels[0].Zone.Color = "red" }},
		{"toggle in radio group", func(c *Config) { c.RadioGroups[0].Members = []int{1, 2, 3, 4} }},
		{"radio channel without group", func(c *Config) { c.RadioGroups = nil }},
		{"channel in two groups", func(c *Config) {
			c.RadioGroups = append(c.RadioGroups, RadioGroupConfig{Members: []int{4}})
		}},
		{"unknown group member", func(c *Config) { c.RadioGroups[0].Members = append(c.RadioGroups[0].Members, 9) }},
		{"bad action", func(c *Config) { c.Commands[0].Action = "explode" }},
		{"command on unknown channel", func(c *Config) { c.Commands[2].Channel = 12 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
