package activity

import (
	"math/rand"
	"time"
)

// Synthetic fabricates a plausible monitoring stream for hosts that run
// without a real screen monitor, alternating between a small set of apps
// with occasional bursts of screen change.
type Synthetic struct {
	rng     *rand.Rand
	apps    []string
	current int
	burst   int
}

var syntheticApps = []string{"editor", "browser", "terminal", "chat"}

// NewSynthetic returns a generator seeded for reproducible runs.
func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{
		rng:  rand.New(rand.NewSource(seed)),
		apps: syntheticApps,
	}
}

// Next produces the next fabricated tick stamped at the given time.
func (s *Synthetic) Next(at time.Time) Tick {
	// switch focus roughly once every dozen samples
	if s.rng.Float64() < 0.08 {
		s.current = s.rng.Intn(len(s.apps))
	}
	// bursts of heavy screen change, quiet otherwise
	if s.burst > 0 {
		s.burst--
	} else if s.rng.Float64() < 0.05 {
		s.burst = 3 + s.rng.Intn(5)
	}
	dist := s.rng.Intn(8)
	if s.burst > 0 {
		dist = 24 + s.rng.Intn(32)
	}
	return Tick{
		AppName:      s.apps[s.current],
		WindowTitle:  s.apps[s.current],
		HashDistance: dist,
		WasSkipped:   s.rng.Float64() < 0.02,
		Timestamp:    at,
	}
}
