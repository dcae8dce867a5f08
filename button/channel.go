// Package button turns smoothed proximity readings into debounced button
// events. A Channel owns one sensor; radio channels share a RadioGroup.
package button

import (
	"fmt"
	"time"

	"touchless-console/clock"
)

const (
	DefaultTriggerDelay = 200 * time.Millisecond
	DefaultRemovalDelay = 500 * time.Millisecond
)

// Config describes one channel. It is fixed for the life of the channel.
type Config struct {
	ID       int
	Pin      int
	Min      int
	Max      int
	Behavior Behavior

	// Smoothing is the moving-average window length.
	Smoothing int

	// TriggerDelay is how long the value must stay in range before a
	// trigger is confirmed. It is also the minimum spacing between triggers.
	TriggerDelay time.Duration

	// RemovalDelay is how long the value must stay out of range after a
	// trigger before the channel re-arms.
	RemovalDelay time.Duration
}

// Channel is the per-button state machine.
type Channel struct {
	cfg    Config
	filter *Filter
	group  *RadioGroup
	sink   Sink

	raw      int
	smoothed int
	value    int

	rangePending bool
	rangeSince   uint32

	outPending bool
	outSince   uint32

	lastTrigger uint32
	handRemoved bool
	toggleOn    bool
}

// NewChannel builds a channel. Radio channels must be given the group they
// belong to; other behaviors must not have one. now seeds the trigger cooldown.
func NewChannel(cfg Config, group *RadioGroup, sink Sink, now uint32) (*Channel, error) {
	if !cfg.Behavior.Valid() {
		return nil, fmt.Errorf("channel %d: invalid behavior %v", cfg.ID, cfg.Behavior)
	}
	if cfg.Min > cfg.Max {
		return nil, fmt.Errorf("channel %d: min %d above max %d", cfg.ID, cfg.Min, cfg.Max)
	}
	if sink == nil {
		return nil, fmt.Errorf("channel %d: nil sink", cfg.ID)
	}
	switch {
	case cfg.Behavior == Radio && group == nil:
		return nil, fmt.Errorf("channel %d: radio channel without a group", cfg.ID)
	case cfg.Behavior == Radio && !group.Has(cfg.ID):
		return nil, fmt.Errorf("channel %d: not a member of its radio group", cfg.ID)
	case cfg.Behavior != Radio && group != nil:
		return nil, fmt.Errorf("channel %d: %v channel cannot join a radio group", cfg.ID, cfg.Behavior)
	}
	if cfg.TriggerDelay <= 0 {
		cfg.TriggerDelay = DefaultTriggerDelay
	}
	if cfg.RemovalDelay <= 0 {
		cfg.RemovalDelay = DefaultRemovalDelay
	}

	return &Channel{
		cfg:         cfg,
		filter:      NewFilter(cfg.Smoothing),
		group:       group,
		sink:        sink,
		lastTrigger: now,
		handRemoved: true,
	}, nil
}

// Update feeds one raw reading taken at now through the filter and the state
// machine. Any resulting events go to the sink before Update returns.
func (c *Channel) Update(now uint32, raw int) {
	c.raw = raw
	c.smoothed = c.filter.Sample(raw)

	if c.InRange() {
		c.outPending = false
		c.updateInRange(now)
		return
	}

	c.rangePending = false
	if c.handRemoved {
		c.value = 0
		return
	}

	if !c.outPending {
		c.outPending = true
		c.outSince = now
	}
	if clock.Reached(now, c.outSince, c.cfg.RemovalDelay) {
		c.outPending = false
		c.handRemoved = true
		if c.cfg.Behavior == Momentary {
			c.value = 0
		}
	}
}

func (c *Channel) updateInRange(now uint32) {
	if !c.rangePending {
		c.rangePending = true
		c.rangeSince = now
		return
	}
	if !clock.Reached(now, c.rangeSince, c.cfg.TriggerDelay) {
		return
	}

	c.value = c.smoothed
	v := int32(c.smoothed)

	if c.cfg.Behavior == Continuous {
		c.sink.ButtonEvent(Event{Channel: c.cfg.ID, Value: v})
		return
	}

	if !c.handRemoved || !clock.Reached(now, c.lastTrigger, c.cfg.TriggerDelay) {
		return
	}
	if c.cfg.Behavior == Radio && c.group.IsActive(c.cfg.ID) {
		return
	}

	c.lastTrigger = now
	c.handRemoved = false

	switch c.cfg.Behavior {
	case Momentary:
		c.sink.ButtonEvent(Event{Channel: c.cfg.ID, Value: v})
	case Toggle:
		c.toggleOn = !c.toggleOn
		if !c.toggleOn {
			v = 0
		}
		c.sink.ButtonEvent(Event{Channel: c.cfg.ID, Value: v})
	case Radio:
		c.group.Activate(c.cfg.ID, v)
	}
}

// InRange reports whether the latest smoothed value lies in [Min, Max].
func (c *Channel) InRange() bool {
	return c.smoothed >= c.cfg.Min && c.smoothed <= c.cfg.Max
}

// Reset clears toggle state and the confirmed value. The smoothing window,
// pending timers and hand-removed gate are kept, so a hand still held over
// the sensor must leave before it can trigger again.
func (c *Channel) Reset() {
	c.toggleOn = false
	c.value = 0
}

func (c *Channel) ID() int               { return c.cfg.ID }
func (c *Channel) Pin() int              { return c.cfg.Pin }
func (c *Channel) Behavior() Behavior    { return c.cfg.Behavior }
func (c *Channel) Threshold() (int, int) { return c.cfg.Min, c.cfg.Max }
func (c *Channel) Raw() int              { return c.raw }
func (c *Channel) Smoothed() int         { return c.smoothed }
func (c *Channel) HandRemoved() bool     { return c.handRemoved }
func (c *Channel) ToggleOn() bool        { return c.toggleOn }

// Value is the latest confirmed value; 0 once the hand is gone.
func (c *Channel) Value() int { return c.value }
