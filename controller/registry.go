package controller

import "strings"

// Action runs when an inbound command resolves to its registry entry.
type Action func(value int32)

type entry struct {
	address string
	action  Action
}

// Registry maps inbound addresses to actions. An entry matches every address
// it is a prefix of; a command is dispatched only when exactly one entry
// matches.
type Registry struct {
	entries []entry
}

// Register appends an entry and returns its index.
func (r *Registry) Register(address string, action Action) int {
	r.entries = append(r.entries, entry{address: address, action: action})
	return len(r.entries) - 1
}

// Match returns the index of the single entry matching address.
func (r *Registry) Match(address string) (int, bool) {
	found := -1
	for i, e := range r.entries {
		if !strings.HasPrefix(address, e.address) {
			continue
		}
		if found >= 0 {
			return -1, false
		}
		found = i
	}
	return found, found >= 0
}

// Dispatch runs the action bound to address. Absent or ambiguous matches are
// dropped and reported as false.
func (r *Registry) Dispatch(address string, value int32) bool {
	i, ok := r.Match(address)
	if !ok {
		return false
	}
	if a := r.entries[i].action; a != nil {
		a(value)
	}
	return true
}

func (r *Registry) Len() int { return len(r.entries) }

// Address returns the text of entry i.
func (r *Registry) Address(i int) string { return r.entries[i].address }
