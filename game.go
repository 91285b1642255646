package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mikan-dev/deskpet/activity"
	"github.com/mikan-dev/deskpet/behavior"
	"github.com/mikan-dev/deskpet/pets"
	"github.com/mikan-dev/deskpet/store"
)

// settleAttemptsMax bounds the position-sync polling; if the window manager
// never reports a stable position the engine falls back to its own idea of
// where the pet is.
const settleAttemptsMax = 30

type GameConfig struct {
	PetDir     string
	PetsRoot   string
	ReplayPath string
	DBPath     string
	Seed       int64
	Monitoring bool
	Debug      bool
}

type Game struct {
	cfg GameConfig

	pet     *pets.Manifest
	petSize float64

	roster    []*pets.Manifest
	rosterIdx int

	engine   *behavior.Engine
	acc      *activity.Accumulator
	animator *Animator

	ui           *ebitenui.UI
	settingsOpen bool
	quit         bool

	watcher *pets.Watcher

	synthetic *activity.Synthetic
	replay    []activity.Tick
	replayIdx int

	db        *store.Store
	sessionID string

	monitoring bool
	wander     bool

	frames int

	dragging bool
	dragOffX int
	dragOffY int

	settleX        int
	settleY        int
	settleStable   int
	settleAttempts int
}

func NewGame(cfg GameConfig) (*Game, error) {
	pet, err := loadPet(cfg.PetDir)
	if err != nil {
		return nil, err
	}

	var roster []*pets.Manifest
	if cfg.PetsRoot != "" {
		roster, err = pets.List(cfg.PetsRoot)
		if err != nil {
			return nil, err
		}
		if cfg.PetDir == "" && len(roster) > 0 {
			pet = roster[0]
		}
	}

	table, err := pets.BuildTable(pet)
	if err != nil {
		return nil, err
	}

	screenW, screenH := ebiten.Monitor().Size()
	petSize := pet.SpriteSizeUnits()
	startX := (float64(screenW) - petSize) / 2
	startY := float64(screenH) - petSize

	engine := behavior.NewEngine(behavior.Config{
		Table:   table,
		ScreenW: float64(screenW),
		ScreenH: float64(screenH),
		PetSize: petSize,
		StartX:  startX,
		StartY:  startY,
	})
	engine.SetAvailableAnimations(pet.AnimationNames())

	g := &Game{
		cfg:        cfg,
		pet:        pet,
		petSize:    petSize,
		roster:     roster,
		engine:     engine,
		acc:        activity.NewAccumulator(),
		animator:   NewAnimator(pet),
		synthetic:  activity.NewSynthetic(cfg.Seed),
		monitoring: cfg.Monitoring,
		wander:     true,
	}
	g.ui = NewSettingsUI(g)

	if cfg.ReplayPath != "" {
		ticks, err := activity.LoadReplay(cfg.ReplayPath)
		if err != nil {
			return nil, err
		}
		g.replay = ticks
	}

	if cfg.DBPath != "" {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		session, err := db.BeginSession(context.Background(), pet.Name, time.Now())
		if err != nil {
			db.Close()
			return nil, err
		}
		g.db = db
		g.sessionID = session
	}

	if cfg.PetDir != "" {
		watcher, err := pets.NewWatcher(cfg.PetDir)
		if err != nil {
			log.Printf("pet watcher disabled: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	if cfg.Debug {
		initDiagnostics()
	}

	return g, nil
}

func loadPet(dir string) (*pets.Manifest, error) {
	if dir == "" {
		return pets.DefaultManifest()
	}
	return pets.LoadManifest(dir)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	g.frames++
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.settingsOpen = !g.settingsOpen
	}
	if g.settingsOpen {
		g.ui.Update()
		return nil
	}

	if g.cfg.Debug && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		copyDiagnostics(g.diagnostics(now))
	}

	g.handleDrag()
	g.reloadPetIfChanged(now)
	g.feedMonitoring(now)
	g.pollPositionSync()

	if !g.dragging {
		for _, fx := range g.engine.Update(now, dt) {
			g.applyEffect(fx)
		}
	}

	g.animator.Step()
	return nil
}

// handleDrag lets the user pick the pet up with the mouse. While the button
// is held the window follows the cursor; on release the engine adopts the
// window's position and drops the pet if it hangs above the ground line.
func (g *Game) handleDrag() {
	if !g.dragging {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			cx, cy := ebiten.CursorPosition()
			g.dragging = true
			g.dragOffX = cx
			g.dragOffY = cy
		}
		return
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		wx, wy := ebiten.WindowPosition()
		cx, cy := ebiten.CursorPosition()
		ebiten.SetWindowPosition(wx+cx-g.dragOffX, wy+cy-g.dragOffY)
		return
	}

	g.dragging = false
	wx, wy := ebiten.WindowPosition()
	g.engine.SyncPosition(float64(wx), float64(wy))

	screenW, screenH := ebiten.Monitor().Size()
	g.engine.UpdateBounds(float64(screenW), float64(screenH), g.petSize)
	if g.engine.Position().Y < float64(screenH)-g.petSize-1 {
		g.engine.StartFall()
	}
}

// pollPositionSync feeds the blocking handshake after a state change: the
// engine refuses to move until the host confirms where the window actually
// is. The window position must hold still for two consecutive ticks before
// it counts as settled.
func (g *Game) pollPositionSync() {
	if g.dragging || !g.engine.NeedsPositionSync() {
		return
	}

	wx, wy := ebiten.WindowPosition()
	if abs(wx-g.settleX) <= 1 && abs(wy-g.settleY) <= 1 {
		g.settleStable++
	} else {
		g.settleStable = 0
	}
	g.settleX, g.settleY = wx, wy
	g.settleAttempts++

	if g.settleStable >= 2 {
		g.engine.SyncPosition(float64(wx), float64(wy))
		g.resetSettle()
		return
	}
	if g.settleAttempts > settleAttemptsMax {
		pos := g.engine.Position()
		g.engine.SyncPosition(pos.X, pos.Y)
		g.resetSettle()
	}
}

func (g *Game) resetSettle() {
	g.settleStable = 0
	g.settleAttempts = 0
}

// feedMonitoring pushes one activity tick per second, from the replay file
// when one was given and the synthetic source otherwise.
func (g *Game) feedMonitoring(now time.Time) {
	if g.frames%ebiten.TPS() != 0 {
		return
	}
	if !g.monitoring {
		g.engine.SetActivitySignals(g.acc.ActivityLevel(), g.acc.SwitchRate(), false)
		return
	}

	var tick activity.Tick
	if len(g.replay) > 0 {
		tick = g.replay[g.replayIdx%len(g.replay)]
		tick.Timestamp = now
		g.replayIdx++
	} else {
		tick = g.synthetic.Next(now)
	}

	g.acc.Push(tick)
	if g.db != nil {
		if err := g.db.InsertTick(context.Background(), g.sessionID, tick); err != nil {
			log.Printf("persist tick: %v", err)
		}
	}
	g.engine.SetActivitySignals(g.acc.ActivityLevel(), g.acc.SwitchRate(), g.acc.IsActive(now))
}

// reloadPetIfChanged hot reloads the manifest after an on-disk edit.
func (g *Game) reloadPetIfChanged(now time.Time) {
	if g.watcher == nil {
		return
	}
	select {
	case name, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		log.Printf("reloading pet after change to %s", name)
		pet, err := pets.LoadManifest(g.cfg.PetDir)
		if err != nil {
			log.Printf("pet reload failed, keeping previous: %v", err)
			return
		}
		if err := g.applyPet(pet, now); err != nil {
			log.Printf("pet reload failed, keeping previous: %v", err)
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("pet watcher: %v", err)
		}
	default:
	}
}

// applyPet swaps the active manifest in place: new animations and table, new
// window size, engine position left alone.
func (g *Game) applyPet(pet *pets.Manifest, now time.Time) error {
	table, err := pets.BuildTable(pet)
	if err != nil {
		return err
	}

	g.pet = pet
	g.petSize = pet.SpriteSizeUnits()
	g.animator = NewAnimator(pet)
	g.engine.SetAvailableAnimations(pet.AnimationNames())

	screenW, screenH := ebiten.Monitor().Size()
	g.engine.UpdateBounds(float64(screenW), float64(screenH), g.petSize)
	for _, fx := range g.engine.SetTable(now, table) {
		g.applyEffect(fx)
	}

	ebiten.SetWindowSize(int(g.petSize), int(g.petSize))
	ebiten.SetWindowTitle(pet.DisplayName)
	return nil
}

// nextPet cycles through the roster loaded from the pets root directory.
func (g *Game) nextPet() {
	if len(g.roster) < 2 {
		return
	}
	g.rosterIdx = (g.rosterIdx + 1) % len(g.roster)
	if err := g.applyPet(g.roster[g.rosterIdx], time.Now()); err != nil {
		log.Printf("switch pet: %v", err)
	}
}

func (g *Game) applyEffect(fx behavior.Effect) {
	switch e := fx.(type) {
	case behavior.PositionChanged:
		ebiten.SetWindowPosition(int(e.X), int(e.Y))
	case behavior.AnimationChanged:
		g.animator.Play(e.Animation, e.Direction)
	case behavior.StateChanged:
		if g.engine.NeedsPositionSync() {
			g.resetSettle()
		}
		if g.cfg.Debug {
			log.Printf("state: %s", e.State)
		}
	}
}

func (g *Game) setWander(enabled bool) {
	g.wander = enabled
	now := time.Now()
	for _, fx := range g.engine.SetWanderEnabled(now, enabled) {
		g.applyEffect(fx)
	}
}

func (g *Game) setMonitoring(enabled bool) {
	g.monitoring = enabled
	if !enabled {
		g.engine.SetActivitySignals(g.acc.ActivityLevel(), g.acc.SwitchRate(), false)
	}
}

func (g *Game) diagnostics(now time.Time) string {
	pos := g.engine.Position()
	return fmt.Sprintf(
		"pet=%s state=%s anim=%s pos=(%.0f,%.0f) level=%.3f rate=%.2f active=%v wander=%v monitoring=%v",
		g.pet.Name, g.engine.State(), g.engine.Animation(),
		pos.X, pos.Y,
		g.acc.ActivityLevel(), g.acc.SwitchRate(), g.acc.IsActive(now),
		g.wander, g.monitoring,
	)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.animator.Draw(screen)

	if g.settingsOpen {
		g.ui.Draw(screen)
	}
	if g.cfg.Debug {
		ebitenutil.DebugPrint(screen, string(g.engine.State()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.petSize), int(g.petSize)
}

func (g *Game) Shutdown() {
	if g.watcher != nil {
		g.watcher.Close()
	}
	if g.db != nil {
		if err := g.db.EndSession(context.Background(), g.sessionID, time.Now()); err != nil {
			log.Printf("end session: %v", err)
		}
		g.db.Close()
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
