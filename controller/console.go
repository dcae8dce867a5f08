// Package controller ties the console together: it owns the button channels,
// answers the host over the serial link and keeps the LED zones in step with
// the buttons.
package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"touchless-console/button"
	"touchless-console/capture"
	"touchless-console/clock"
	"touchless-console/heartbeat"
	"touchless-console/lights"
	"touchless-console/protocol"
	"touchless-console/sensor"
)

const DefaultFlash = 150 * time.Millisecond

// Source yields received serial bytes without blocking.
type Source interface {
	Next() (byte, bool)
}

// ChannelDef is one button as the console sees it.
type ChannelDef struct {
	Name    string
	Address string
	Enabled bool
	Button  button.Config
	Zone    Zone
}

// CommandDef binds an inbound address to a named action.
type CommandDef struct {
	Address string
	Action  string
	Channel int
}

// Settings is the static console layout. Channel ids are slice indexes.
type Settings struct {
	Channels    []ChannelDef
	RadioGroups [][]int
	Commands    []CommandDef
	Heartbeat   time.Duration
	RangeTest   bool

	// Flash is how long a momentary zone stays lit. Zero means DefaultFlash.
	Flash time.Duration
}

// Deps are the collaborators the console drives.
type Deps struct {
	Clock  clock.Clock
	Source Source
	Link   io.StringWriter
	Sensor sensor.Reader
	Strip  lights.Strip

	// Sim receives simulate commands. Nil when real sensors are attached.
	Sim *sensor.Sim
	// Trace records protocol traffic. Optional.
	Trace *capture.Recorder
	Log   logrus.FieldLogger
}

// Console is the main controller. All methods must be called from the loop
// goroutine.
type Console struct {
	deps      Deps
	log       logrus.FieldLogger
	defs      []ChannelDef
	channels  []*button.Channel
	groups    []*button.RadioGroup
	zones     []Zone
	registry  Registry
	parser    *protocol.Parser
	heartbeat *heartbeat.Heartbeat
	flash     uint32
	rangeTest bool

	armed     bool
	session   string
	sent      int
	discarded int
}

// New builds the console and every channel in it.
func New(s Settings, d Deps) (*Console, error) {
	if d.Clock == nil || d.Source == nil || d.Link == nil || d.Sensor == nil || d.Strip == nil {
		return nil, fmt.Errorf("console needs a clock, source, link, sensor and strip")
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if s.Flash <= 0 {
		s.Flash = DefaultFlash
	}

	now := d.Clock.Millis()
	c := &Console{
		deps:      d,
		log:       d.Log,
		defs:      s.Channels,
		zones:     make([]Zone, len(s.Channels)),
		parser:    protocol.NewParser(),
		flash:     uint32(s.Flash / time.Millisecond),
		rangeTest: s.RangeTest,
	}
	// The heartbeat writes through the console so beats are traced too.
	c.heartbeat = heartbeat.New(s.Heartbeat, &tracedLink{c: c}, now, d.Log)

	groupOf := make(map[int]*button.RadioGroup)
	for gi, members := range s.RadioGroups {
		for _, id := range members {
			if id < 0 || id >= len(s.Channels) {
				return nil, fmt.Errorf("radio group %d: unknown channel %d", gi, id)
			}
			if b := s.Channels[id].Button.Behavior; b != button.Radio {
				return nil, fmt.Errorf("radio group %d: channel %d is %v", gi, id, b)
			}
			if _, taken := groupOf[id]; taken {
				return nil, fmt.Errorf("radio group %d: channel %d already grouped", gi, id)
			}
		}
		g, err := button.NewRadioGroup(members, c)
		if err != nil {
			return nil, err
		}
		c.groups = append(c.groups, g)
		for _, id := range members {
			groupOf[id] = g
		}
	}

	for id, def := range s.Channels {
		cfg := def.Button
		cfg.ID = id
		ch, err := button.NewChannel(cfg, groupOf[id], c, now)
		if err != nil {
			return nil, err
		}
		c.channels = append(c.channels, ch)
		c.zones[id] = def.Zone
	}

	for _, cmd := range s.Commands {
		action, err := c.action(cmd)
		if err != nil {
			return nil, err
		}
		c.registry.Register(cmd.Address, action)
	}
	return c, nil
}

// Tick runs one pass of the control loop at the clock's current time.
func (c *Console) Tick() {
	now := c.deps.Clock.Millis()

	c.pump()
	c.heartbeat.Check(now)
	c.expireFlashes(now)

	if !c.armed {
		return
	}
	for id, ch := range c.channels {
		if !c.defs[id].Enabled {
			continue
		}
		ch.Update(now, c.deps.Sensor.Read(ch.Pin()))
		if c.rangeTest {
			lo, hi := ch.Threshold()
			c.log.WithFields(logrus.Fields{
				"channel":  c.defs[id].Name,
				"raw":      ch.Raw(),
				"smoothed": ch.Smoothed(),
				"min":      lo,
				"max":      hi,
			}).Debug("range test")
		}
	}
}

// pump drains received bytes until one message completes.
func (c *Console) pump() {
	for {
		b, ok := c.deps.Source.Next()
		if !ok {
			return
		}
		if msg, ok := c.parser.Feed(b); ok {
			c.HandleMessage(msg)
			return
		}
	}
}

// HandleMessage reacts to one parsed host line.
func (c *Console) HandleMessage(msg protocol.Message) {
	switch msg.Kind {
	case protocol.Handshake:
		c.trace(capture.In, protocol.HandshakeToken)
		c.handshake()
	case protocol.Command:
		c.trace(capture.In, protocol.Encode(msg.Address, msg.Value))
		if !c.registry.Dispatch(msg.Address, msg.Value) {
			c.discarded++
			c.log.WithField("address", msg.Address).Debug("Discarding unmatched command")
		}
	}
}

func (c *Console) handshake() {
	c.session = uuid.NewString()
	if c.deps.Trace != nil {
		c.deps.Trace.SetSession(c.session)
	}
	c.send(protocol.Line(protocol.ReadyToken))
	if !c.armed {
		c.log.WithField("session", c.session).Info("Host connected, console armed")
	} else {
		c.log.WithField("session", c.session).Info("Host reconnected")
	}
	c.armed = true
}

// ButtonEvent implements button.Sink.
func (c *Console) ButtonEvent(e button.Event) {
	def := c.defs[e.Channel]
	c.send(protocol.Encode(def.Address, e.Value))
	c.sent++
	c.log.WithFields(logrus.Fields{"channel": def.Name, "value": e.Value}).Debug("Button event")

	z := &c.zones[e.Channel]
	var err error
	switch def.Button.Behavior {
	case button.Toggle, button.Radio:
		err = z.set(c.deps.Strip, e.Value != 0)
	case button.Momentary:
		if e.Value != 0 {
			err = z.set(c.deps.Strip, true)
			z.startFlash(c.deps.Clock.Millis())
		}
	case button.Continuous:
		err = z.playhead(c.deps.Strip, scalePlayhead(e.Value, def.Button.Min, def.Button.Max, z.Len()))
	}
	if err != nil {
		c.log.WithError(err).WithField("channel", def.Name).Warn("Failed to update LEDs")
	}
}

func (c *Console) expireFlashes(now uint32) {
	for id := range c.zones {
		z := &c.zones[id]
		if !z.flashDone(now, c.flash) {
			continue
		}
		z.flashing = false
		if err := z.set(c.deps.Strip, false); err != nil {
			c.log.WithError(err).WithField("channel", c.defs[id].Name).Warn("Failed to update LEDs")
		}
	}
}

// Reset clears toggles, radio selections and every zone.
func (c *Console) Reset() {
	for _, ch := range c.channels {
		ch.Reset()
	}
	for _, g := range c.groups {
		g.Reset()
	}
	for id := range c.zones {
		c.zones[id].reset()
	}
	if err := c.deps.Strip.Clear(); err != nil {
		c.log.WithError(err).Warn("Failed to clear LEDs")
	}
	c.log.Info("Console reset")
}

// Disarm stops channel polling until the next handshake.
func (c *Console) Disarm() {
	if c.armed {
		c.log.WithField("session", c.session).Info("Console disarmed")
	}
	c.armed = false
}

func (c *Console) send(line string) {
	c.trace(capture.Out, line)
	if _, err := c.deps.Link.WriteString(line); err != nil {
		c.log.WithError(err).Warn("Failed to write to host")
	}
}

func (c *Console) trace(dir capture.Direction, line string) {
	if c.deps.Trace != nil {
		c.deps.Trace.Record(dir, line)
	}
}

func (c *Console) Armed() bool                    { return c.armed }
func (c *Console) Session() string                { return c.session }
func (c *Console) Sent() int                      { return c.sent }
func (c *Console) Discarded() int                 { return c.discarded }
func (c *Console) Registry() *Registry            { return &c.registry }
func (c *Console) Channel(id int) *button.Channel { return c.channels[id] }

// Zone returns a copy of channel id's LED zone.
func (c *Console) Zone(id int) Zone { return c.zones[id] }

// tracedLink lets the heartbeat share the console's outbound path.
type tracedLink struct {
	c *Console
}

func (t *tracedLink) WriteString(s string) (int, error) {
	t.c.trace(capture.Out, s)
	return t.c.deps.Link.WriteString(s)
}
