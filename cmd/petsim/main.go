// petsim runs the behavior engine headless against a recorded or synthetic
// activity stream and prints the state timeline. Useful for tuning a pet's
// behavior table without launching the desktop window.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/mikan-dev/deskpet/activity"
	"github.com/mikan-dev/deskpet/behavior"
	"github.com/mikan-dev/deskpet/pets"
	"github.com/mikan-dev/deskpet/store"
)

func main() {
	petDir := flag.String("pet", "", "pet directory holding pet.yaml (empty uses the built-in pet)")
	replayPath := flag.String("replay", "", "JSONL replay file (empty uses the synthetic source)")
	seconds := flag.Int("seconds", 300, "simulated duration")
	dt := flag.Float64("dt", 1.0/60.0, "simulation step in seconds")
	seed := flag.Int64("seed", 1, "seed for the synthetic source and transition rolls")
	dbPath := flag.String("db", "", "SQLite file to log the fed ticks into (empty disables)")
	flag.Parse()

	if err := run(*petDir, *replayPath, *dbPath, *seconds, *dt, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(petDir, replayPath, dbPath string, seconds int, dt float64, seed int64) error {
	pet, err := loadPet(petDir)
	if err != nil {
		return err
	}
	table, err := pets.BuildTable(pet)
	if err != nil {
		return err
	}

	const screenW, screenH = 1920.0, 1080.0
	petSize := pet.SpriteSizeUnits()

	rng := newRoll(seed)
	engine := behavior.NewEngine(behavior.Config{
		Table:   table,
		ScreenW: screenW,
		ScreenH: screenH,
		PetSize: petSize,
		StartX:  (screenW - petSize) / 2,
		StartY:  screenH - petSize,
		Roll:    rng,
	})
	engine.SetAvailableAnimations(pet.AnimationNames())

	var replay []activity.Tick
	if replayPath != "" {
		replay, err = activity.LoadReplay(replayPath)
		if err != nil {
			return err
		}
	}
	synthetic := activity.NewSynthetic(seed)

	var db *store.Store
	var session string
	if dbPath != "" {
		db, err = store.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	acc := activity.NewAccumulator()
	now := time.Now()
	if db != nil {
		session, err = db.BeginSession(context.Background(), pet.Name, now)
		if err != nil {
			return err
		}
	}

	steps := int(float64(seconds) / dt)
	nextTickAt := now
	for i := 0; i <= steps; i++ {
		t := now.Add(time.Duration(float64(i) * dt * float64(time.Second)))

		if !t.Before(nextTickAt) {
			tick := nextTick(replay, synthetic, i, t)
			acc.Push(tick)
			if db != nil {
				if err := db.InsertTick(context.Background(), session, tick); err != nil {
					return err
				}
			}
			engine.SetActivitySignals(acc.ActivityLevel(), acc.SwitchRate(), acc.IsActive(t))
			nextTickAt = nextTickAt.Add(time.Second)
		}

		for _, fx := range engine.Update(t, dt) {
			printEffect(t.Sub(now), fx)
			if _, ok := fx.(behavior.StateChanged); ok && engine.NeedsPositionSync() {
				// headless windows settle instantly
				pos := engine.Position()
				engine.SyncPosition(pos.X, pos.Y)
			}
		}
	}

	if db != nil {
		end := now.Add(time.Duration(seconds) * time.Second)
		if err := db.EndSession(context.Background(), session, end); err != nil {
			return err
		}
	}
	fmt.Printf("%8.1fs  finished in state %s\n", float64(seconds), engine.State())
	return nil
}

func loadPet(dir string) (*pets.Manifest, error) {
	if dir == "" {
		return pets.DefaultManifest()
	}
	return pets.LoadManifest(dir)
}

func nextTick(replay []activity.Tick, synthetic *activity.Synthetic, i int, at time.Time) activity.Tick {
	if len(replay) > 0 {
		tick := replay[i%len(replay)]
		tick.Timestamp = at
		return tick
	}
	return synthetic.Next(at)
}

func printEffect(elapsed time.Duration, fx behavior.Effect) {
	switch e := fx.(type) {
	case behavior.StateChanged:
		fmt.Printf("%8.1fs  state -> %s\n", elapsed.Seconds(), e.State)
	case behavior.AnimationChanged:
		fmt.Printf("%8.1fs  anim  -> %s (dir %+.0f)\n", elapsed.Seconds(), e.Animation, e.Direction)
	}
}

// newRoll returns a deterministic roll source so two runs with the same seed
// produce the same timeline.
func newRoll(seed int64) func() float64 {
	return rand.New(rand.NewSource(seed)).Float64
}
