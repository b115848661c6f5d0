// Package fps measures the frame rate of the render loop.
package fps

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the number of frame durations averaged.
const DefaultWindow = 30

// Meter keeps a rolling window of frame durations.
type Meter struct {
	window  int
	samples []float64
	next    int
	last    time.Time
	now     func() time.Time
}

// NewMeter creates a Meter averaging over window frames.
func NewMeter(window int) *Meter {
	if window < 1 {
		window = DefaultWindow
	}
	return &Meter{
		window:  window,
		samples: make([]float64, 0, window),
		now:     time.Now,
	}
}

// Tick marks the end of a frame.
func (m *Meter) Tick() {
	now := m.now()
	if !m.last.IsZero() {
		m.Add(now.Sub(m.last))
	}
	m.last = now
}

// Add records one frame duration.
func (m *Meter) Add(d time.Duration) {
	if d <= 0 {
		return
	}
	s := d.Seconds()
	if len(m.samples) < m.window {
		m.samples = append(m.samples, s)
		return
	}
	m.samples[m.next] = s
	m.next = (m.next + 1) % m.window
}

// FPS returns the mean frame rate, or 0 before two ticks.
func (m *Meter) FPS() float64 {
	if len(m.samples) == 0 {
		return 0
	}
	mean := stat.Mean(m.samples, nil)
	if mean <= 0 {
		return 0
	}
	return 1 / mean
}

// Jitter returns the standard deviation of the frame duration.
func (m *Meter) Jitter() time.Duration {
	if len(m.samples) < 2 {
		return 0
	}
	sd := stat.StdDev(m.samples, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return time.Duration(sd * float64(time.Second))
}

// Samples returns the number of durations in the window.
func (m *Meter) Samples() int {
	return len(m.samples)
}
