package behavior

import (
	"github.com/jakecoffman/cp"
)

const (
	// edgeMargin is how close to a screen edge the pet may wander, in
	// logical pixels, before it bounces.
	edgeMargin = 4.0

	gravityAccel     = 800.0 // units/s^2
	terminalVelocity = 600.0 // units/s
)

// Movement integrates the pet's simulated position: horizontal wandering
// with edge bounce, and a gravity fall toward the ground line. It is owned
// exclusively by the Engine; bounds are replaced from outside when the
// screen or pet size changes.
type Movement struct {
	pos       cp.Vector
	direction float64 // +1 faces right, -1 faces left
	velocityY float64
	falling   bool

	screenW float64
	screenH float64
	petSize float64
}

func NewMovement(x, y, screenW, screenH, petSize float64) *Movement {
	return &Movement{
		pos:       cp.Vector{X: x, Y: y},
		direction: 1,
		screenW:   screenW,
		screenH:   screenH,
		petSize:   petSize,
	}
}

// Position returns the current simulated position.
func (m *Movement) Position() cp.Vector { return m.pos }

// Direction returns the current facing, +1 or -1.
func (m *Movement) Direction() float64 { return m.direction }

// MoveHorizontal advances x by speed*direction*dt. On reaching the margin
// of either screen edge it clamps there and flips direction; nothing else
// ever changes the facing.
func (m *Movement) MoveHorizontal(speed, dt float64) {
	m.pos.X += speed * m.direction * dt

	maxX := m.screenW - m.petSize - edgeMargin
	if m.pos.X >= maxX {
		m.pos.X = maxX
		m.direction = -1
	} else if m.pos.X <= edgeMargin {
		m.pos.X = edgeMargin
		m.direction = 1
	}
}

// StartFall begins a vertical drop from the current position.
func (m *Movement) StartFall() {
	m.falling = true
	m.velocityY = 0
}

// Falling reports whether a drop is in progress.
func (m *Movement) Falling() bool { return m.falling }

// ApplyGravity integrates the fall for dt seconds under constant
// acceleration capped at terminal velocity, and reports whether the pet
// landed on the ground line this step.
func (m *Movement) ApplyGravity(dt float64) bool {
	m.velocityY += gravityAccel * dt
	if m.velocityY > terminalVelocity {
		m.velocityY = terminalVelocity
	}
	m.pos.Y += m.velocityY * dt

	if m.pos.Y >= m.screenH-m.petSize {
		m.ClampToGround()
		return true
	}
	return false
}

// ClampToGround snaps the pet onto the ground line and ends any fall.
func (m *Movement) ClampToGround() {
	m.pos.Y = m.screenH - m.petSize
	m.velocityY = 0
	m.falling = false
}

// IsOnGround reports whether the pet sits on or below the ground line.
func (m *Movement) IsOnGround() bool {
	return m.pos.Y >= m.screenH-m.petSize
}

// SyncFromWindow unconditionally overwrites the simulated position with the
// host-observed window position, e.g. after a user drag.
func (m *Movement) SyncFromWindow(x, y float64) {
	m.pos = cp.Vector{X: x, Y: y}
}

// UpdateBounds replaces the cached screen and pet-size bounds. The current
// position is left alone; the next MoveHorizontal re-clamps it.
func (m *Movement) UpdateBounds(screenW, screenH, petSize float64) {
	m.screenW = screenW
	m.screenH = screenH
	m.petSize = petSize
}
