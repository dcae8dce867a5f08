package button

import "fmt"

const noneActive = -1

// RadioGroup keeps at most one of its member channels active.
type RadioGroup struct {
	members []int
	active  int
	sink    Sink
}

// NewRadioGroup creates a group over the given channel ids. Declaration order
// is the order deactivations are emitted in.
func NewRadioGroup(members []int, sink Sink) (*RadioGroup, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("radio group needs at least one member")
	}
	seen := make(map[int]bool, len(members))
	for _, id := range members {
		if seen[id] {
			return nil, fmt.Errorf("channel %d listed twice in radio group", id)
		}
		seen[id] = true
	}
	return &RadioGroup{
		members: append([]int(nil), members...),
		active:  noneActive,
		sink:    sink,
	}, nil
}

// Activate makes id the active member. The activated member's event is emitted
// first, then a zero for every other member. Activating the active member does
// nothing and returns false.
func (g *RadioGroup) Activate(id int, value int32) bool {
	if id == g.active || !g.Has(id) {
		return false
	}
	g.active = id

	g.sink.ButtonEvent(Event{Channel: id, Value: value})
	for _, other := range g.members {
		if other != id {
			g.sink.ButtonEvent(Event{Channel: other, Value: 0})
		}
	}
	return true
}

// Active returns the active member, if any.
func (g *RadioGroup) Active() (int, bool) {
	return g.active, g.active != noneActive
}

// IsActive reports whether id is the active member.
func (g *RadioGroup) IsActive(id int) bool { return g.active == id }

// Has reports whether id belongs to the group.
func (g *RadioGroup) Has(id int) bool {
	for _, m := range g.members {
		if m == id {
			return true
		}
	}
	return false
}

// Members returns the member ids in declaration order.
func (g *RadioGroup) Members() []int {
	return append([]int(nil), g.members...)
}

// Reset clears the active member without emitting anything.
func (g *RadioGroup) Reset() { g.active = noneActive }
