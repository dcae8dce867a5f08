package button

import (
	"fmt"
	"strings"
)

// Behavior selects how a channel reacts to a confirmed presence.
type Behavior int

const (
	Momentary Behavior = iota + 1
	Toggle
	Radio
	Continuous
)

func (b Behavior) String() string {
	switch b {
	case Momentary:
		return "momentary"
	case Toggle:
		return "toggle"
	case Radio:
		return "radio"
	case Continuous:
		return "continuous"
	default:
		return fmt.Sprintf("behavior(%d)", int(b))
	}
}

// Valid reports whether b is one of the four behaviors.
func (b Behavior) Valid() bool {
	return b >= Momentary && b <= Continuous
}

// ParseBehavior reads a behavior name as written in configuration.
func ParseBehavior(s string) (Behavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "momentary", "trigger":
		return Momentary, nil
	case "toggle":
		return Toggle, nil
	case "radio":
		return Radio, nil
	case "continuous":
		return Continuous, nil
	default:
		return 0, fmt.Errorf("unknown button behavior: %q", s)
	}
}

// Event is a trigger or release emitted by a channel. A Value of 0 means off.
type Event struct {
	Channel int
	Value   int32
}

// Sink receives channel events synchronously, in emission order.
type Sink interface {
	ButtonEvent(Event)
}
