package behavior

import "time"

// StateID identifies a behavior state.
type StateID string

const (
	StateIdle  StateID = "idle"
	StateWalk  StateID = "walk"
	StateSleep StateID = "sleep"
	StateRun   StateID = "run"
)

// StateConfig holds the static behavior parameters for one state. Configs
// are built once at startup and never mutated.
type StateConfig struct {
	Animation     string
	MinDuration   time.Duration
	CanMove       bool
	Speed         float64 // horizontal units per second
	Interruptible bool
	Rules         []Rule
}

// Table maps each state to its config.
type Table map[StateID]StateConfig

// DefaultTable builds the built-in four-state behavior policy.
func DefaultTable() Table {
	return Table{
		StateIdle: {
			Animation:     "idle",
			MinDuration:   2 * time.Second,
			Interruptible: true,
			Rules: []Rule{
				{To: StateWalk, Check: afterWithChance(8*time.Second, 0.15)},
				{To: StateSleep, Check: sleepPressure(20*time.Second, 0.30, 0.10)},
				{To: StateRun, Check: switchRateAbove(6)},
			},
		},
		StateWalk: {
			Animation:     "walk",
			MinDuration:   3 * time.Second,
			CanMove:       true,
			Speed:         30,
			Interruptible: true,
			Rules: []Rule{
				{To: StateIdle, Check: afterWithChance(8*time.Second, 0.20)},
			},
		},
		StateSleep: {
			Animation:     "sleep",
			MinDuration:   10 * time.Second,
			Interruptible: true,
			Rules: []Rule{
				{To: StateIdle, Check: wakeOnActivity(0.6, 15*time.Second)},
				{To: StateIdle, Check: afterWithChance(30*time.Second, 0.05)},
			},
		},
		StateRun: {
			Animation:     "run",
			MinDuration:   2 * time.Second,
			CanMove:       true,
			Speed:         80,
			Interruptible: true,
			Rules: []Rule{
				{To: StateWalk, Check: switchRateCalm(3, 3*time.Second)},
				{To: StateIdle, Check: afterWithChance(6*time.Second, 0.20)},
			},
		},
	}
}
