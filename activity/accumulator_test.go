package activity

import (
	"math"
	"testing"
	"time"
)

var base = time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

func tick(app string, dist int, offset time.Duration) Tick {
	return Tick{
		AppName:      app,
		WindowTitle:  app,
		HashDistance: dist,
		Timestamp:    base.Add(offset),
	}
}

func TestSignalsFromShortWindow(t *testing.T) {
	a := NewAccumulator()
	a.Push(tick("editor", 10, 0))
	a.Push(tick("editor", 20, time.Second))
	a.Push(tick("browser", 30, 2*time.Second))

	wantLevel := (10.0 + 20.0 + 30.0) / 3.0 / 64.0
	if got := a.ActivityLevel(); math.Abs(got-wantLevel) > 1e-9 {
		t.Fatalf("ActivityLevel = %v, want %v", got, wantLevel)
	}
	// one switch over a 2s span scales to 30 per minute
	if got := a.SwitchRate(); math.Abs(got-30) > 1e-9 {
		t.Fatalf("SwitchRate = %v, want 30", got)
	}
}

func TestSkippedTicksExcludedFromLevel(t *testing.T) {
	a := NewAccumulator()
	a.Push(tick("editor", 40, 0))
	skipped := tick("editor", 64, time.Second)
	skipped.WasSkipped = true
	a.Push(skipped)
	a.Push(tick("editor", 20, 2*time.Second))

	want := (40.0 + 20.0) / 2.0 / 64.0
	if got := a.ActivityLevel(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("ActivityLevel = %v, want %v", got, want)
	}
}

func TestAllSkippedYieldsZeroLevel(t *testing.T) {
	a := NewAccumulator()
	for i := 0; i < 3; i++ {
		tk := tick("editor", 50, time.Duration(i)*time.Second)
		tk.WasSkipped = true
		a.Push(tk)
	}
	if got := a.ActivityLevel(); got != 0 {
		t.Fatalf("ActivityLevel = %v, want 0", got)
	}
}

func TestLevelClampedToOne(t *testing.T) {
	a := NewAccumulator()
	a.Push(tick("editor", 200, 0))
	if got := a.ActivityLevel(); got != 1 {
		t.Fatalf("ActivityLevel = %v, want 1", got)
	}
}

func TestEvictionKeepsWindowBoundary(t *testing.T) {
	a := NewAccumulator()
	a.Push(tick("editor", 10, 0))
	a.Push(tick("editor", 10, 30*time.Second))
	// newest tick lands exactly 60s after the first; the first survives
	a.Push(tick("editor", 10, 60*time.Second))
	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}
	// one more second pushes the first tick out
	a.Push(tick("editor", 10, 61*time.Second))
	if a.Len() != 3 {
		t.Fatalf("Len after eviction = %d, want 3", a.Len())
	}
}

func TestSwitchRateNeedsTwoTicks(t *testing.T) {
	a := NewAccumulator()
	if got := a.SwitchRate(); got != 0 {
		t.Fatalf("empty SwitchRate = %v, want 0", got)
	}
	a.Push(tick("editor", 10, 0))
	if got := a.SwitchRate(); got != 0 {
		t.Fatalf("single-tick SwitchRate = %v, want 0", got)
	}
	// two ticks with the same timestamp have zero span
	a.Push(tick("browser", 10, 0))
	if got := a.SwitchRate(); got != 0 {
		t.Fatalf("zero-span SwitchRate = %v, want 0", got)
	}
}

func TestIsActiveFreshness(t *testing.T) {
	a := NewAccumulator()
	if a.IsActive(base) {
		t.Fatalf("empty accumulator should not be active")
	}
	a.Push(tick("editor", 10, 0))
	if !a.IsActive(base.Add(15 * time.Second)) {
		t.Fatalf("tick 15s old should still be fresh")
	}
	if a.IsActive(base.Add(16 * time.Second)) {
		t.Fatalf("tick 16s old should be stale")
	}
}
