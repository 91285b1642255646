package behavior

// Effect is a host-visible side effect produced by an engine update. The
// host drains the returned slice each frame and applies what it needs; the
// engine itself never touches the window or the screen.
type Effect interface{ isEffect() }

// AnimationChanged asks the host to display a different animation.
type AnimationChanged struct {
	Animation string
	Direction float64 // +1 right, -1 left
}

// PositionChanged reports a new simulated window position in logical pixels.
type PositionChanged struct {
	X, Y float64
}

// StateChanged reports that the behavior state switched. Hosts use it to
// decide whether a position re-sync is needed.
type StateChanged struct {
	State StateID
}

func (AnimationChanged) isEffect() {}
func (PositionChanged) isEffect()  {}
func (StateChanged) isEffect()     {}
