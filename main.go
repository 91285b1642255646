package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	petDir := flag.String("pet", "", "pet directory holding pet.yaml (empty uses the built-in pet)")
	petsRoot := flag.String("pets", "", "directory of pet directories to cycle through in settings")
	replayPath := flag.String("replay", "", "JSONL replay file to feed instead of synthetic activity")
	dbPath := flag.String("db", "", "SQLite file for the activity log (empty disables persistence)")
	seed := flag.Int64("seed", 1, "seed for the synthetic activity source")
	monitoring := flag.Bool("monitoring", true, "start with activity monitoring enabled")
	debug := flag.Bool("debug", false, "draw state diagnostics on the pet")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(GameConfig{
		PetDir:     *petDir,
		PetsRoot:   *petsRoot,
		ReplayPath: *replayPath,
		DBPath:     *dbPath,
		Seed:       *seed,
		Monitoring: *monitoring,
		Debug:      *debug,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Shutdown()

	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowTitle(game.pet.DisplayName)

	size := int(game.petSize)
	ebiten.SetWindowSize(size, size)
	ebiten.SetWindowPosition(int(game.engine.Position().X), int(game.engine.Position().Y))

	opts := &ebiten.RunGameOptions{ScreenTransparent: true}
	if err := ebiten.RunGameWithOptions(game, opts); err != nil {
		log.Fatal(err)
	}
}
