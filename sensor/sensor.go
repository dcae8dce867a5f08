// Package sensor provides the raw proximity readings fed to button channels.
// Readers always return a number; hardware faults are not reported.
package sensor

import "sync"

// Reader samples the sensor on an input pin.
type Reader interface {
	Read(pin int) int
}

// Sim is a Reader whose readings are set by hand, from tests or from host
// commands. Unset pins read as fallback.
type Sim struct {
	mu       sync.Mutex
	values   map[int]int
	fallback int
}

// NewSim returns a simulated reader where every pin starts at fallback.
func NewSim(fallback int) *Sim {
	return &Sim{values: make(map[int]int), fallback: fallback}
}

func (s *Sim) Read(pin int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[pin]; ok {
		return v
	}
	return s.fallback
}

// Set fixes the reading of pin.
func (s *Sim) Set(pin, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[pin] = value
}

// Clear returns every pin to the fallback reading.
func (s *Sim) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[int]int)
}
