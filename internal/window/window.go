// Package window provides a fixed-size rolling accumulator over float64 values.
// It backs the trailing-window statistics of the signal engine.
package window

// Window keeps the last Size values pushed into it and their running sum.
type Window struct {
	buf   []float64
	idx   int // next write position
	count int // values received, saturates at len(buf)
	sum   float64
}

// New creates a window holding size values. size must be positive.
func New(size int) *Window {
	if size <= 0 {
		panic("window: size must be positive")
	}

	return &Window{
		buf: make([]float64, size),
	}
}

// Push adds a value, evicting the oldest one once the window is full.
func (w *Window) Push(value float64) {
	if w.count == len(w.buf) {
		w.sum -= w.buf[w.idx]
	} else {
		w.count++
	}

	w.buf[w.idx] = value
	w.sum += value
	w.idx = (w.idx + 1) % len(w.buf)

	// Recompute the sum once per lap so add/subtract rounding never accumulates
	// past a single window.
	if w.idx == 0 && w.count == len(w.buf) {
		w.resync()
	}
}

// Full reports whether the window holds Size values.
func (w *Window) Full() bool {
	return w.count == len(w.buf)
}

// Len returns the number of values currently held.
func (w *Window) Len() int {
	return w.count
}

// Size returns the window capacity.
func (w *Window) Size() int {
	return len(w.buf)
}

// Sum returns the sum of the held values.
func (w *Window) Sum() float64 {
	return w.sum
}

// Mean returns the mean of the held values, or 0 when empty.
func (w *Window) Mean() float64 {
	if w.count == 0 {
		return 0
	}

	return w.sum / float64(w.count)
}

// Reset clears the window for reuse.
func (w *Window) Reset() {
	for i := range w.buf {
		w.buf[i] = 0
	}

	w.idx = 0
	w.count = 0
	w.sum = 0
}

func (w *Window) resync() {
	sum := 0.0
	for _, v := range w.buf {
		sum += v
	}

	w.sum = sum
}
