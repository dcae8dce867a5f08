package controller

import (
	"fmt"

	"touchless-console/button"
	"touchless-console/config"
	"touchless-console/lights"
)

// action resolves a command's name to the function the registry runs.
func (c *Console) action(cmd CommandDef) (Action, error) {
	needsChannel := cmd.Action == config.ActionZone || cmd.Action == config.ActionPlayhead || cmd.Action == config.ActionSimulate
	if needsChannel && (cmd.Channel < 0 || cmd.Channel >= len(c.channels)) {
		return nil, fmt.Errorf("command %s: unknown channel %d", cmd.Address, cmd.Channel)
	}
	id := cmd.Channel

	switch cmd.Action {
	case config.ActionZone:
		return func(v int32) { c.setZone(id, v != 0) }, nil
	case config.ActionPlayhead:
		return func(v int32) { c.setPlayhead(id, int(v)) }, nil
	case config.ActionReset:
		return func(int32) { c.Reset() }, nil
	case config.ActionDisarm:
		return func(int32) { c.Disarm() }, nil
	case config.ActionSimulate:
		return func(v int32) { c.simulate(id, int(v)) }, nil
	default:
		return nil, fmt.Errorf("command %s: invalid action %q", cmd.Address, cmd.Action)
	}
}

func (c *Console) setZone(id int, on bool) {
	z := &c.zones[id]
	z.flashing = false
	if err := z.set(c.deps.Strip, on); err != nil {
		c.log.WithError(err).WithField("channel", c.defs[id].Name).Warn("Failed to update LEDs")
	}
}

func (c *Console) setPlayhead(id int, count int) {
	if err := c.zones[id].playhead(c.deps.Strip, count); err != nil {
		c.log.WithError(err).WithField("channel", c.defs[id].Name).Warn("Failed to update LEDs")
	}
}

func (c *Console) simulate(id int, value int) {
	if c.deps.Sim == nil {
		c.log.WithField("channel", c.defs[id].Name).Warn("Ignoring simulate command: no simulated sensor")
		return
	}
	c.deps.Sim.Set(c.channels[id].Pin(), value)
}

// FromConfig translates a loaded configuration into console settings.
func FromConfig(cfg *config.Config) (Settings, error) {
	s := Settings{
		Heartbeat: cfg.Timing.Heartbeat(),
		Flash:     cfg.Timing.Flash(),
		RangeTest: cfg.Log.RangeTest,
	}

	for i, ch := range cfg.Channels {
		def, err := channelDef(i, ch, cfg)
		if err != nil {
			return Settings{}, err
		}
		s.Channels = append(s.Channels, def)
	}
	for _, g := range cfg.RadioGroups {
		s.RadioGroups = append(s.RadioGroups, append([]int(nil), g.Members...))
	}
	for _, cmd := range cfg.Commands {
		s.Commands = append(s.Commands, CommandDef{Address: cmd.Address, Action: cmd.Action, Channel: cmd.Channel})
	}
	return s, nil
}

func channelDef(id int, ch config.ChannelConfig, cfg *config.Config) (ChannelDef, error) {
	behavior, err := button.ParseBehavior(ch.Behavior)
	if err != nil {
		return ChannelDef{}, fmt.Errorf("channel %d: %w", id, err)
	}
	color := lights.White
	if ch.Zone.Color != "" {
		if color, err = lights.ParseColor(ch.Zone.Color); err != nil {
			return ChannelDef{}, fmt.Errorf("channel %d: %w", id, err)
		}
	}
	name := ch.Name
	if name == "" {
		name = ch.Address
	}

	return ChannelDef{
		Name:    name,
		Address: ch.Address,
		Enabled: ch.IsEnabled(),
		Button: button.Config{
			ID:           id,
			Pin:          ch.Pin,
			Min:          ch.Min,
			Max:          ch.Max,
			Behavior:     behavior,
			Smoothing:    cfg.Smoothing,
			TriggerDelay: cfg.Timing.TriggerDelay(),
			RemovalDelay: cfg.Timing.RemovalDelay(),
		},
		Zone: Zone{From: ch.Zone.From, To: ch.Zone.To, Color: color},
	}, nil
}
