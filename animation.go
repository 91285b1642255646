package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/mikan-dev/deskpet/pets"
)

// Animator steps the active animation's frame clock and renders the pet.
// Pets ship no sprite sheets yet, so rendering is procedural: a rounded body
// whose color and bob follow the manifest's frame timings. The frame index
// is still tracked exactly as a sheet-based renderer would need it.
type Animator struct {
	defs      map[string]pets.AnimationDef
	size      float64
	current   string
	direction float64
	frame     int
	elapsedMS float64
	finished  bool
}

func NewAnimator(pet *pets.Manifest) *Animator {
	return &Animator{
		defs:      pet.Animations,
		size:      pet.SpriteSizeUnits(),
		current:   pet.DefaultAnimation,
		direction: 1,
	}
}

// Play switches to the named animation, restarting its frame clock. Playing
// the current animation again only updates the facing direction.
func (a *Animator) Play(name string, direction float64) {
	if direction != 0 {
		a.direction = direction
	}
	if name == a.current {
		return
	}
	if _, ok := a.defs[name]; !ok {
		return
	}
	a.current = name
	a.frame = 0
	a.elapsedMS = 0
	a.finished = false
}

// Step advances the frame clock by one host tick.
func (a *Animator) Step() {
	def, ok := a.defs[a.current]
	if !ok || a.finished {
		return
	}
	a.elapsedMS += 1000.0 / float64(ebiten.TPS())
	for a.elapsedMS >= float64(def.FrameDurationMS) {
		a.elapsedMS -= float64(def.FrameDurationMS)
		a.frame++
		if a.frame >= def.Frames {
			if def.Loop {
				a.frame = 0
			} else {
				a.frame = def.Frames - 1
				a.finished = true
			}
		}
	}
}

// Frame returns the current frame index within the active animation.
func (a *Animator) Frame() int { return a.frame }

// Animation returns the name of the active animation.
func (a *Animator) Animation() string { return a.current }

var bodyColors = map[string]color.RGBA{
	"idle":  colornames.Plum,
	"walk":  colornames.Mediumpurple,
	"run":   colornames.Orchid,
	"sleep": colornames.Slategray,
}

func (a *Animator) Draw(screen *ebiten.Image) {
	body, ok := bodyColors[a.current]
	if !ok {
		body = colornames.Plum
	}

	s := float32(a.size)
	bob := float32(0)
	if a.current != "sleep" && a.frame%2 == 1 {
		bob = s * 0.04
	}

	// body, inset so the bob never clips
	inset := s * 0.08
	vector.DrawFilledRect(screen, inset, inset+bob, s-2*inset, s-2*inset, body, false)

	// eyes track the facing direction; sleeping pets show slits
	eyeW := s * 0.09
	eyeH := eyeW
	if a.current == "sleep" {
		eyeH = eyeW * 0.3
	}
	eyeY := s * 0.32
	centerX := s * 0.5
	offset := s * 0.16
	if a.direction < 0 {
		offset = -offset
	}
	vector.DrawFilledRect(screen, centerX+offset-eyeW*1.6, eyeY, eyeW, eyeH, colornames.Black, false)
	vector.DrawFilledRect(screen, centerX+offset+eyeW*0.6, eyeY, eyeW, eyeH, colornames.Black, false)
}
