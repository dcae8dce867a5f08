package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"touchless-console/button"
	"touchless-console/lights"
)

// Sensor drivers
const (
	SensorSim     = "sim"
	SensorMCP3008 = "mcp3008"
)

// LED drivers
const (
	LEDMemory = "memory"
	LEDSerial = "serial"
)

// Command actions
const (
	ActionZone     = "zone"
	ActionPlayhead = "playhead"
	ActionReset    = "reset"
	ActionDisarm   = "disarm"
	ActionSimulate = "simulate"
)

// Config represents the complete console configuration
type Config struct {
	Serial      SerialConfig       `yaml:"serial"`
	Timing      TimingConfig       `yaml:"timing"`
	Smoothing   int                `yaml:"smoothing"`
	Sensor      SensorConfig       `yaml:"sensor"`
	LEDs        LEDConfig          `yaml:"leds"`
	Log         LogConfig          `yaml:"log"`
	Trace       TraceConfig        `yaml:"trace"`
	Channels    []ChannelConfig    `yaml:"channels"`
	RadioGroups []RadioGroupConfig `yaml:"radioGroups"`
	Commands    []CommandConfig    `yaml:"commands"`
}

// SerialConfig holds the host link settings
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// TimingConfig holds all timing-related settings
type TimingConfig struct {
	TriggerConfirmMs int `yaml:"triggerConfirmMs"`
	HandRemovedMs    int `yaml:"handRemovedMs"`
	HeartbeatSec     int `yaml:"heartbeatSec"`
	StartupDelayMs   int `yaml:"startupDelayMs"`
	TickMs           int `yaml:"tickMs"`
	FlashMs          int `yaml:"flashMs"`
}

// SensorConfig selects where raw readings come from
type SensorConfig struct {
	Driver     string `yaml:"driver"`
	ChipSelect int    `yaml:"chipSelect"`
	SimDefault int    `yaml:"simDefault"`
}

// LEDConfig selects the LED strip collaborator
type LEDConfig struct {
	Driver string `yaml:"driver"`
	Port   string `yaml:"port"`
	Baud   int    `yaml:"baud"`
	Pixels int    `yaml:"pixels"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	RangeTest bool   `yaml:"rangeTest"`
}

// TraceConfig holds protocol capture settings
type TraceConfig struct {
	File string `yaml:"file"`
}

// ChannelConfig describes one touchless button. Its index in the list is its id.
type ChannelConfig struct {
	Name     string     `yaml:"name"`
	Pin      int        `yaml:"pin"`
	Address  string     `yaml:"address"`
	Min      int        `yaml:"min"`
	Max      int        `yaml:"max"`
	Behavior string     `yaml:"behavior"`
	Enabled  *bool      `yaml:"enabled"`
	Zone     ZoneConfig `yaml:"zone"`
}

// ZoneConfig is the channel's pixel range on the strip
type ZoneConfig struct {
	From  int    `yaml:"from"`
	To    int    `yaml:"to"`
	Color string `yaml:"color"`
}

// RadioGroupConfig lists mutually exclusive channel ids
type RadioGroupConfig struct {
	Members []int `yaml:"members"`
}

// CommandConfig binds an inbound address to an action
type CommandConfig struct {
	Address string `yaml:"address"`
	Action  string `yaml:"action"`
	Channel int    `yaml:"channel"`
}

// Load builds the configuration from defaults, the YAML file at path (if
// any) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := getDefaultConfig()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in drum console layout.
func Default() *Config {
	return getDefaultConfig()
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyUSB0",
			Baud: 9600,
		},
		Timing: TimingConfig{
			TriggerConfirmMs: 200,
			HandRemovedMs:    500,
			HeartbeatSec:     10,
			StartupDelayMs:   1000,
			TickMs:           5,
			FlashMs:          150,
		},
		Smoothing: button.DefaultSmoothing,
		Sensor: SensorConfig{
			Driver:     SensorSim,
			SimDefault: 80,
		},
		LEDs: LEDConfig{
			Driver: LEDMemory,
			Baud:   115200,
			Pixels: 40,
		},
		Log: LogConfig{
			Level: "info",
		},
		Channels: []ChannelConfig{
			{Name: "a1", Pin: 0, Address: "/cent/cns/drum/a1", Min: 5, Max: 30, Behavior: "momentary", Zone: ZoneConfig{From: 0, To: 7, Color: "#ff2000"}},
			{Name: "a2", Pin: 1, Address: "/cent/cns/drum/a2", Min: 5, Max: 30, Behavior: "toggle", Zone: ZoneConfig{From: 8, To: 15, Color: "#20ff00"}},
			{Name: "b1", Pin: 2, Address: "/cent/cns/drum/b1", Min: 5, Max: 30, Behavior: "radio", Zone: ZoneConfig{From: 16, To: 19, Color: "#0040ff"}},
			{Name: "b2", Pin: 3, Address: "/cent/cns/drum/b2", Min: 5, Max: 30, Behavior: "radio", Zone: ZoneConfig{From: 20, To: 23, Color: "#0040ff"}},
			{Name: "b3", Pin: 4, Address: "/cent/cns/drum/b3", Min: 5, Max: 30, Behavior: "radio", Zone: ZoneConfig{From: 24, To: 27, Color: "#0040ff"}},
			{Name: "c1", Pin: 5, Address: "/cent/cns/drum/c1", Min: 5, Max: 40, Behavior: "continuous", Zone: ZoneConfig{From: 28, To: 39, Color: "#ffffff"}},
		},
		RadioGroups: []RadioGroupConfig{
			{Members: []int{2, 3, 4}},
		},
		Commands: []CommandConfig{
			{Address: "/cent/cns/drum/reset", Action: ActionReset},
			{Address: "/cent/cns/drum/disarm", Action: ActionDisarm},
			{Address: "/cent/cns/drum/led/a1", Action: ActionZone, Channel: 0},
			{Address: "/cent/cns/drum/led/a2", Action: ActionZone, Channel: 1},
			{Address: "/cent/cns/drum/playhead", Action: ActionPlayhead, Channel: 5},
			{Address: "/cent/cns/drum/sim/a1", Action: ActionSimulate, Channel: 0},
			{Address: "/cent/cns/drum/sim/a2", Action: ActionSimulate, Channel: 1},
			{Address: "/cent/cns/drum/sim/b1", Action: ActionSimulate, Channel: 2},
			{Address: "/cent/cns/drum/sim/b2", Action: ActionSimulate, Channel: 3},
			{Address: "/cent/cns/drum/sim/b3", Action: ActionSimulate, Channel: 4},
			{Address: "/cent/cns/drum/sim/c1", Action: ActionSimulate, Channel: 5},
		},
	}
}

// loadFromFile loads configuration from a YAML file. Lists in the file
// replace the defaults wholesale.
func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	if file.Channels != nil {
		cfg.Channels = nil
		cfg.RadioGroups = nil
		cfg.Commands = nil
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("CONSOLE_SERIAL_PORT"); port != "" {
		cfg.Serial.Port = port
	}
	if baud := os.Getenv("CONSOLE_SERIAL_BAUD"); baud != "" {
		if v, err := strconv.Atoi(baud); err == nil {
			cfg.Serial.Baud = v
		}
	}
	if level := os.Getenv("CONSOLE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if driver := os.Getenv("CONSOLE_SENSOR_DRIVER"); driver != "" {
		cfg.Sensor.Driver = driver
	}
}

// Validate checks the configuration for consistency
func Validate(cfg *Config) error {
	if cfg.Serial.Port == "" {
		return fmt.Errorf("serial port must be set")
	}
	if cfg.Serial.Baud <= 0 {
		return fmt.Errorf("invalid baud rate: %d", cfg.Serial.Baud)
	}

	t := cfg.Timing
	if t.TriggerConfirmMs <= 0 || t.HandRemovedMs <= 0 || t.HeartbeatSec <= 0 || t.TickMs <= 0 || t.FlashMs <= 0 {
		return fmt.Errorf("timing values must be positive: %+v", t)
	}
	if t.StartupDelayMs < 0 {
		return fmt.Errorf("timing values must not be negative: %+v", t)
	}

	if cfg.Smoothing < 1 || cfg.Smoothing > 64 {
		return fmt.Errorf("smoothing %d is outside range [1, 64]", cfg.Smoothing)
	}

	if !contains([]string{SensorSim, SensorMCP3008}, cfg.Sensor.Driver) {
		return fmt.Errorf("invalid sensor driver %q", cfg.Sensor.Driver)
	}
	if !contains([]string{LEDMemory, LEDSerial}, cfg.LEDs.Driver) {
		return fmt.Errorf("invalid led driver %q", cfg.LEDs.Driver)
	}
	if cfg.LEDs.Driver == LEDSerial && cfg.LEDs.Port == "" {
		return fmt.Errorf("serial led driver needs a port")
	}
	if cfg.LEDs.Pixels <= 0 {
		return fmt.Errorf("led strip needs at least one pixel")
	}

	if len(cfg.Channels) == 0 {
		return fmt.Errorf("at least one channel must be configured")
	}
	for i, ch := range cfg.Channels {
		if err := validateChannel(ch, cfg.LEDs.Pixels); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
	}

	if err := validateRadioGroups(cfg); err != nil {
		return err
	}

	for i, cmd := range cfg.Commands {
		if err := validateCommand(cmd, len(cfg.Channels)); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	return nil
}

func validateChannel(ch ChannelConfig, pixels int) error {
	if _, err := button.ParseBehavior(ch.Behavior); err != nil {
		return err
	}
	if err := validateAddress(ch.Address); err != nil {
		return err
	}
	if ch.Min > ch.Max {
		return fmt.Errorf("min %d above max %d", ch.Min, ch.Max)
	}
	z := ch.Zone
	if z.From < 0 || z.From > z.To || z.To >= pixels {
		return fmt.Errorf("zone %d..%d outside strip of %d pixels", z.From, z.To, pixels)
	}
	if z.Color != "" {
		if _, err := lights.ParseColor(z.Color); err != nil {
			return err
		}
	}
	return nil
}

func validateRadioGroups(cfg *Config) error {
	owner := make(map[int]int)
	for g, group := range cfg.RadioGroups {
		if len(group.Members) == 0 {
			return fmt.Errorf("radio group %d has no members", g)
		}
		for _, id := range group.Members {
			if id < 0 || id >= len(cfg.Channels) {
				return fmt.Errorf("radio group %d: unknown channel %d", g, id)
			}
			if b, _ := button.ParseBehavior(cfg.Channels[id].Behavior); b != button.Radio {
				return fmt.Errorf("radio group %d: channel %d is %s", g, id, cfg.Channels[id].Behavior)
			}
			if prev, ok := owner[id]; ok {
				return fmt.Errorf("channel %d is in radio groups %d and %d", id, prev, g)
			}
			owner[id] = g
		}
	}
	for id, ch := range cfg.Channels {
		if b, _ := button.ParseBehavior(ch.Behavior); b == button.Radio {
			if _, ok := owner[id]; !ok {
				return fmt.Errorf("radio channel %d belongs to no radio group", id)
			}
		}
	}
	return nil
}

func validateCommand(cmd CommandConfig, channels int) error {
	if err := validateAddress(cmd.Address); err != nil {
		return err
	}
	switch cmd.Action {
	case ActionReset, ActionDisarm:
		return nil
	case ActionZone, ActionPlayhead, ActionSimulate:
		if cmd.Channel < 0 || cmd.Channel >= channels {
			return fmt.Errorf("unknown channel %d", cmd.Channel)
		}
		return nil
	default:
		return fmt.Errorf("invalid action %q", cmd.Action)
	}
}

func validateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address must be set")
	}
	if strings.ContainsAny(addr, " \t\r\n") {
		return fmt.Errorf("address %q contains whitespace", addr)
	}
	return nil
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// IsEnabled reports whether the channel is polled. Channels are enabled
// unless switched off explicitly.
func (c ChannelConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

func (t TimingConfig) TriggerDelay() time.Duration {
	return time.Duration(t.TriggerConfirmMs) * time.Millisecond
}

func (t TimingConfig) RemovalDelay() time.Duration {
	return time.Duration(t.HandRemovedMs) * time.Millisecond
}

func (t TimingConfig) Heartbeat() time.Duration {
	return time.Duration(t.HeartbeatSec) * time.Second
}

func (t TimingConfig) StartupDelay() time.Duration {
	return time.Duration(t.StartupDelayMs) * time.Millisecond
}

func (t TimingConfig) Tick() time.Duration {
	return time.Duration(t.TickMs) * time.Millisecond
}

func (t TimingConfig) Flash() time.Duration {
	return time.Duration(t.FlashMs) * time.Millisecond
}
