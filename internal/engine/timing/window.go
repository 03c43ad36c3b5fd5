// Package timing tracks frame durations over a sliding window.
package timing

import "time"

// DefaultCapacity is the number of frames averaged by default.
const DefaultCapacity = 200

// Window is a fixed-capacity ring buffer of frame durations with a running
// sum. The oldest sample is dropped when a new one arrives at capacity.
type Window struct {
	samples []time.Duration
	next    int
	count   int
	sum     time.Duration
}

// NewWindow creates a window holding at most capacity samples. A
// non-positive capacity selects DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{samples: make([]time.Duration, capacity)}
}

// Push records one frame duration. Negative durations count as zero.
func (w *Window) Push(d time.Duration) {
	if d < 0 {
		d = 0
	}
	if w.count == len(w.samples) {
		w.sum -= w.samples[w.next]
	} else {
		w.count++
	}
	w.samples[w.next] = d
	w.sum += d
	w.next = (w.next + 1) % len(w.samples)
}

// Len returns the number of samples held.
func (w *Window) Len() int { return w.count }

// Cap returns the window capacity.
func (w *Window) Cap() int { return len(w.samples) }

// Sum returns the total duration of the held samples.
func (w *Window) Sum() time.Duration { return w.sum }

// Average returns the mean frame duration, zero when empty.
func (w *Window) Average() time.Duration {
	if w.count == 0 {
		return 0
	}
	return w.sum / time.Duration(w.count)
}

// FPS returns frames per second over the window: sample count divided by the
// summed duration. It is zero when the window is empty or the sum is zero.
func (w *Window) FPS() float64 {
	if w.count == 0 || w.sum <= 0 {
		return 0
	}
	return float64(w.count) / w.sum.Seconds()
}

// Reset drops all samples.
func (w *Window) Reset() {
	w.next, w.count, w.sum = 0, 0, 0
}
