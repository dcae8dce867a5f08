package button

// DefaultSmoothing is the moving-average window length used when none is set.
const DefaultSmoothing = 10

// Filter smooths raw sensor readings with a fixed-length moving average.
// The window starts zeroed, so the first N outputs ramp up from 0.
type Filter struct {
	window []int
	next   int
}

// NewFilter returns a filter averaging the last n samples.
func NewFilter(n int) *Filter {
	if n <= 0 {
		n = DefaultSmoothing
	}
	return &Filter{window: make([]int, n)}
}

// Sample overwrites the oldest slot with raw and returns the mean of the window.
func (f *Filter) Sample(raw int) int {
	f.window[f.next] = raw
	f.next = (f.next + 1) % len(f.window)

	sum := 0
	for _, v := range f.window {
		sum += v
	}
	return sum / len(f.window)
}

// Len is the window length.
func (f *Filter) Len() int { return len(f.window) }
