package behavior

import (
	"math"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
)

// evalInterval rate-limits transition evaluation independent of frame rate.
const evalInterval = 500 * time.Millisecond

// Config seeds a new engine.
type Config struct {
	// Table defaults to DefaultTable when nil.
	Table   Table
	ScreenW float64
	ScreenH float64
	PetSize float64
	StartX  float64
	StartY  float64
	// Roll returns one uniform draw in [0,1) per transition evaluation.
	// Defaults to a time-seeded math/rand source; tests inject fixed
	// sequences here.
	Roll func() float64
}

// Engine drives the behavior state machine. It is single-owner and
// frame-driven: all mutation happens inside Update and the explicit
// mutators, called from one rendering loop.
type Engine struct {
	table Table
	mov   *Movement

	state     StateID
	enteredAt time.Time
	lastEval  time.Time

	awaitingSync  bool
	wanderEnabled bool

	activityLevel float64
	switchRate    float64
	monitoring    bool

	available map[string]bool
	roll      func() float64

	lastX float64 // last emitted rounded coordinates
	lastY float64
}

func NewEngine(cfg Config) *Engine {
	table := cfg.Table
	if table == nil {
		table = DefaultTable()
	}
	roll := cfg.Roll
	if roll == nil {
		roll = rand.New(rand.NewSource(time.Now().UnixNano())).Float64
	}
	return &Engine{
		table:         table,
		mov:           NewMovement(cfg.StartX, cfg.StartY, cfg.ScreenW, cfg.ScreenH, cfg.PetSize),
		state:         StateIdle,
		wanderEnabled: true,
		roll:          roll,
		lastX:         math.Round(cfg.StartX),
		lastY:         math.Round(cfg.StartY),
	}
}

// State returns the current behavior state.
func (e *Engine) State() StateID { return e.state }

// Position returns the current simulated position.
func (e *Engine) Position() cp.Vector { return e.mov.Position() }

// Direction returns the current facing, +1 or -1.
func (e *Engine) Direction() float64 { return e.mov.Direction() }

// Animation returns the resolved animation name for the current state.
func (e *Engine) Animation() string {
	return e.resolveAnimation(e.table[e.state].Animation)
}

// NeedsPositionSync reports whether simulated movement is frozen until the
// host confirms the real window position via SyncPosition.
func (e *Engine) NeedsPositionSync() bool { return e.awaitingSync }

// Falling reports whether a drop is in progress.
func (e *Engine) Falling() bool { return e.mov.Falling() }

// Update advances the engine by one frame. now is the frame clock reading
// and dt the elapsed seconds since the previous frame. The returned effects
// are what changed this frame, in order.
func (e *Engine) Update(now time.Time, dt float64) []Effect {
	if e.enteredAt.IsZero() {
		e.enteredAt = now
		e.lastEval = now
	}

	var fx []Effect
	if now.Sub(e.lastEval) >= evalInterval {
		e.lastEval = now
		fx = e.evaluateTransitions(now, fx)
	}

	cfg := e.table[e.state]
	if cfg.CanMove && cfg.Speed > 0 && !e.awaitingSync {
		prevDir := e.mov.Direction()
		e.mov.MoveHorizontal(cfg.Speed, dt)
		if e.mov.Direction() != prevDir {
			fx = append(fx, AnimationChanged{
				Animation: e.resolveAnimation(cfg.Animation),
				Direction: e.mov.Direction(),
			})
		}
		fx = e.emitPosition(fx)
	}

	// Drop in progress (host-triggered; no built-in state drives gravity).
	if e.mov.Falling() && !e.awaitingSync {
		e.mov.ApplyGravity(dt)
		fx = e.emitPosition(fx)
	}

	return fx
}

func (e *Engine) emitPosition(fx []Effect) []Effect {
	pos := e.mov.Position()
	x, y := math.Round(pos.X), math.Round(pos.Y)
	if x != e.lastX || y != e.lastY {
		e.lastX, e.lastY = x, y
		fx = append(fx, PositionChanged{X: pos.X, Y: pos.Y})
	}
	return fx
}

func (e *Engine) evaluateTransitions(now time.Time, fx []Effect) []Effect {
	cfg, ok := e.table[e.state]
	if !ok || !cfg.Interruptible {
		return fx
	}
	inState := now.Sub(e.enteredAt)
	if inState < cfg.MinDuration {
		return fx
	}

	ctx := Context{
		TimeInState:   inState,
		ActivityLevel: e.activityLevel,
		SwitchRate:    e.switchRate,
		Hour:          now.Hour(),
		Monitoring:    e.monitoring,
		Roll:          e.roll(),
	}
	for _, rule := range cfg.Rules {
		if rule.Check != nil && rule.Check(ctx) {
			return e.transitionTo(now, rule.To, fx)
		}
	}
	return fx
}

func (e *Engine) transitionTo(now time.Time, next StateID, fx []Effect) []Effect {
	if !e.wanderEnabled && e.table[next].CanMove {
		// wander-off is a global override: suppress silently, timers untouched
		return fx
	}

	e.state = next
	e.enteredAt = now

	cfg := e.table[next]
	if cfg.CanMove {
		// The real window may have drifted from the simulated position
		// (user drag); freeze movement until the host reports where the
		// window actually is, so we don't snap.
		e.awaitingSync = true
	}

	fx = append(fx, AnimationChanged{
		Animation: e.resolveAnimation(cfg.Animation),
		Direction: e.mov.Direction(),
	})
	return append(fx, StateChanged{State: next})
}

// resolveAnimation substitutes "idle" when the loaded character lacks the
// nominal animation, so the engine never requests a missing sprite set. A
// nil set means the host has not constrained animations yet.
func (e *Engine) resolveAnimation(name string) string {
	if e.available == nil || e.available[name] {
		return name
	}
	return "idle"
}

// SyncPosition overwrites the simulated position with the host-observed
// window position and unblocks movement.
func (e *Engine) SyncPosition(x, y float64) {
	e.mov.SyncFromWindow(x, y)
	e.lastX, e.lastY = math.Round(x), math.Round(y)
	e.awaitingSync = false
}

// Reset re-initializes to idle at the given position; used when the active
// pet character changes.
func (e *Engine) Reset(now time.Time, x, y float64) {
	e.state = StateIdle
	e.enteredAt = now
	e.lastEval = now
	e.awaitingSync = false
	e.mov.falling = false
	e.mov.velocityY = 0
	e.mov.SyncFromWindow(x, y)
	e.lastX, e.lastY = math.Round(x), math.Round(y)
}

// StartFall begins a host-triggered vertical drop, e.g. releasing the pet
// above the ground line after a drag.
func (e *Engine) StartFall() {
	e.mov.StartFall()
}

// SetWanderEnabled toggles autonomous horizontal movement. Disabling while
// in a movement-capable state forces an immediate idle transition,
// bypassing the minimum-duration gate.
func (e *Engine) SetWanderEnabled(now time.Time, enabled bool) []Effect {
	e.wanderEnabled = enabled
	if !enabled && e.table[e.state].CanMove {
		return e.transitionTo(now, StateIdle, nil)
	}
	return nil
}

// SetTable swaps in a new transition table, as when the active character's
// manifest is edited on disk. If the current state no longer exists the
// engine returns to idle.
func (e *Engine) SetTable(now time.Time, table Table) []Effect {
	e.table = table
	if _, ok := table[e.state]; !ok {
		return e.transitionTo(now, StateIdle, nil)
	}
	return nil
}

// SetActivitySignals stores the latest accumulator-derived inputs. The host
// pushes these whenever new activity arrives; the engine never reads the
// accumulator directly.
func (e *Engine) SetActivitySignals(level, switchRate float64, monitoring bool) {
	e.activityLevel = level
	e.switchRate = switchRate
	e.monitoring = monitoring
}

// SetAvailableAnimations replaces the animation fallback set for the loaded
// character.
func (e *Engine) SetAvailableAnimations(names []string) {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	e.available = set
}

// UpdateBounds forwards new screen/pet-size bounds to the movement
// controller without touching the current position.
func (e *Engine) UpdateBounds(screenW, screenH, petSize float64) {
	e.mov.UpdateBounds(screenW, screenH, petSize)
}
