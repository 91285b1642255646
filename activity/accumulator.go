package activity

import "time"

const (
	// window is how much history the accumulator keeps, measured from the
	// most recently pushed tick.
	window = 60 * time.Second

	// freshness is how recent the newest tick must be for the stream to
	// count as live.
	freshness = 15 * time.Second
)

// Accumulator keeps a rolling window of monitoring ticks and derives the
// activity signals from it. It is not safe for concurrent use; the host
// pushes and reads from its update loop.
type Accumulator struct {
	ticks []Tick
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Push appends a tick and evicts everything older than the window, measured
// from the tick just pushed. A tick exactly at the window boundary is kept.
func (a *Accumulator) Push(t Tick) {
	a.ticks = append(a.ticks, t)
	cutoff := t.Timestamp.Add(-window)
	i := 0
	for i < len(a.ticks) && a.ticks[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		a.ticks = append(a.ticks[:0], a.ticks[i:]...)
	}
}

// ActivityLevel is the mean screen-change magnitude of the non-skipped ticks
// in the window, normalized to [0, 1]. Skipped ticks (captures that were
// throttled or failed) do not count toward the mean. Returns 0 when no
// usable tick is present.
func (a *Accumulator) ActivityLevel() float64 {
	sum := 0
	n := 0
	for _, t := range a.ticks {
		if t.WasSkipped {
			continue
		}
		sum += t.HashDistance
		n++
	}
	if n == 0 {
		return 0
	}
	level := float64(sum) / float64(n) / maxHashDistance
	if level > 1 {
		level = 1
	}
	return level
}

// SwitchRate is the number of focused-app changes in the window, scaled to a
// per-minute rate over the actual span covered. It needs at least two ticks
// and a positive span; otherwise it is 0.
func (a *Accumulator) SwitchRate() float64 {
	if len(a.ticks) < 2 {
		return 0
	}
	span := a.ticks[len(a.ticks)-1].Timestamp.Sub(a.ticks[0].Timestamp)
	if span <= 0 {
		return 0
	}
	switches := 0
	for i := 1; i < len(a.ticks); i++ {
		if a.ticks[i].AppName != a.ticks[i-1].AppName {
			switches++
		}
	}
	return float64(switches) / span.Seconds() * window.Seconds()
}

// IsActive reports whether the newest tick is fresh relative to now.
func (a *Accumulator) IsActive(now time.Time) bool {
	if len(a.ticks) == 0 {
		return false
	}
	return now.Sub(a.ticks[len(a.ticks)-1].Timestamp) <= freshness
}

// Len returns the number of ticks currently retained.
func (a *Accumulator) Len() int {
	return len(a.ticks)
}
