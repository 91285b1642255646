package behavior

import (
	"testing"
	"time"
)

func TestCompileCheckKinds(t *testing.T) {
	cases := []struct {
		name string
		kind string
		args map[string]any
		ctx  Context
		want bool
	}{
		{
			"always_fires",
			"always", nil,
			Context{}, true,
		},
		{
			"after_with_chance_fires",
			"after_with_chance", map[string]any{"min_ms": 8000, "chance": 0.15},
			Context{TimeInState: 9 * time.Second, Roll: 0.10}, true,
		},
		{
			"after_with_chance_bad_roll",
			"after_with_chance", map[string]any{"min_ms": 8000, "chance": 0.15},
			Context{TimeInState: 9 * time.Second, Roll: 0.20}, false,
		},
		{
			"after_with_chance_too_early",
			"after_with_chance", map[string]any{"min_ms": 8000, "chance": 0.15},
			Context{TimeInState: 7 * time.Second, Roll: 0.01}, false,
		},
		{
			"sleep_pressure_night",
			"sleep_pressure", map[string]any{"min_ms": 20000, "night_chance": 0.30, "day_chance": 0.10},
			Context{TimeInState: 21 * time.Second, Hour: 23, Roll: 0.25}, true,
		},
		{
			"sleep_pressure_early_morning_counts_as_night",
			"sleep_pressure", map[string]any{"min_ms": 20000, "night_chance": 0.30, "day_chance": 0.10},
			Context{TimeInState: 21 * time.Second, Hour: 2, Roll: 0.25}, true,
		},
		{
			"sleep_pressure_day",
			"sleep_pressure", map[string]any{"min_ms": 20000, "night_chance": 0.30, "day_chance": 0.10},
			Context{TimeInState: 21 * time.Second, Hour: 14, Roll: 0.25}, false,
		},
		{
			"switch_rate_above",
			"switch_rate_above", map[string]any{"rate": 6},
			Context{SwitchRate: 6.5}, true,
		},
		{
			"switch_rate_above_at_boundary",
			"switch_rate_above", map[string]any{"rate": 6},
			Context{SwitchRate: 6.0}, false,
		},
		{
			"switch_rate_calm",
			"switch_rate_calm", map[string]any{"rate": 3, "min_ms": 3000},
			Context{SwitchRate: 1, TimeInState: 4 * time.Second}, true,
		},
		{
			"wake_on_activity",
			"wake_on_activity", map[string]any{"level": 0.6, "min_ms": 15000},
			Context{ActivityLevel: 0.7, TimeInState: 16 * time.Second}, true,
		},
		{
			"monitoring_active",
			"monitoring_active", map[string]any{"active": true},
			Context{Monitoring: true}, true,
		},
		{
			"monitoring_inactive",
			"monitoring_active", map[string]any{"active": false},
			Context{Monitoring: true}, false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			check, err := CompileCheck(c.kind, c.args)
			if err != nil {
				t.Fatalf("CompileCheck(%q) error: %v", c.kind, err)
			}
			if got := check(c.ctx); got != c.want {
				t.Fatalf("check = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCompileCheckUnknownKind(t *testing.T) {
	if _, err := CompileCheck("psychic_link", nil); err == nil {
		t.Fatalf("expected error for unknown predicate kind")
	}
}

func TestDefaultTableShape(t *testing.T) {
	table := DefaultTable()

	wantMin := map[StateID]time.Duration{
		StateIdle:  2 * time.Second,
		StateWalk:  3 * time.Second,
		StateSleep: 10 * time.Second,
		StateRun:   2 * time.Second,
	}
	for state, min := range wantMin {
		cfg, ok := table[state]
		if !ok {
			t.Fatalf("missing state %s", state)
		}
		if cfg.MinDuration != min {
			t.Fatalf("%s min duration = %v, want %v", state, cfg.MinDuration, min)
		}
		if !cfg.Interruptible {
			t.Fatalf("%s must be interruptible", state)
		}
	}

	if table[StateIdle].CanMove || table[StateSleep].CanMove {
		t.Fatalf("idle and sleep must be stationary")
	}
	if !table[StateWalk].CanMove || !table[StateRun].CanMove {
		t.Fatalf("walk and run must be movement states")
	}
	if table[StateWalk].Speed <= 0 || table[StateRun].Speed <= table[StateWalk].Speed {
		t.Fatalf("run must be faster than walk, walk faster than 0")
	}

	// rule ordering carries priority: idle tries walk, then sleep, then run
	idleRules := table[StateIdle].Rules
	if len(idleRules) != 3 || idleRules[0].To != StateWalk || idleRules[1].To != StateSleep || idleRules[2].To != StateRun {
		t.Fatalf("idle rules out of order: %+v", idleRules)
	}
}
