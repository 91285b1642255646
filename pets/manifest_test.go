package pets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikan-dev/deskpet/behavior"
)

const sampleManifest = `
name: momo
display_name: Momo
sprite_size: small
default_animation: idle
animations:
  idle:
    frames: 4
    frame_duration_ms: 250
    loop: true
  walk:
    frames: 6
    frame_duration_ms: 120
    loop: true
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if m.Name != "momo" || m.DisplayName != "Momo" {
		t.Fatalf("names = %q / %q", m.Name, m.DisplayName)
	}
	if got := m.SpriteSizeUnits(); got != 32 {
		t.Fatalf("SpriteSizeUnits = %v, want 32", got)
	}
	names := m.AnimationNames()
	if len(names) != 2 || names[0] != "idle" || names[1] != "walk" {
		t.Fatalf("AnimationNames = %v", names)
	}
}

func TestParseManifestRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad name", "name: Momo!\nanimations:\n  idle: {frames: 1, frame_duration_ms: 100}\n"},
		{"no animations", "name: momo\n"},
		{"zero frames", "name: momo\nanimations:\n  idle: {frames: 0, frame_duration_ms: 100}\n"},
		{"missing default", "name: momo\ndefault_animation: fly\nanimations:\n  idle: {frames: 1, frame_duration_ms: 100}\n"},
		{"bad sprite size", "name: momo\nsprite_size: huge\nanimations:\n  idle: {frames: 1, frame_duration_ms: 100}\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(c.yaml)); err == nil {
				t.Fatalf("expected error for %s", c.name)
			}
		})
	}
}

func TestDefaultAnimationFallsBackToIdle(t *testing.T) {
	m, err := ParseManifest([]byte("name: momo\nanimations:\n  idle: {frames: 1, frame_duration_ms: 100}\n"))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if m.DefaultAnimation != "idle" {
		t.Fatalf("DefaultAnimation = %q, want idle", m.DefaultAnimation)
	}
}

func TestBuildTableOverlaysDefaults(t *testing.T) {
	m, err := ParseManifest([]byte(`
name: momo
animations:
  idle: {frames: 1, frame_duration_ms: 100}
  zoom: {frames: 4, frame_duration_ms: 60}
behavior:
  run:
    animation: zoom
    min_duration_ms: 1500
    can_move: true
    speed: 120
    rules:
      - to: idle
        kind: after_with_chance
        args: {min_ms: 4000, chance: 0.5}
`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	table, err := BuildTable(m)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	run := table[behavior.StateRun]
	if run.Animation != "zoom" || run.Speed != 120 || !run.CanMove {
		t.Fatalf("run override not applied: %+v", run)
	}
	if run.MinDuration != 1500*time.Millisecond {
		t.Fatalf("run MinDuration = %v", run.MinDuration)
	}
	if len(run.Rules) != 1 || run.Rules[0].To != behavior.StateIdle {
		t.Fatalf("run rules = %+v", run.Rules)
	}
	// untouched states keep the defaults
	if walk := table[behavior.StateWalk]; walk.Speed != 30 {
		t.Fatalf("walk default lost: %+v", walk)
	}
}

func TestBuildTableRejectsUnknownTarget(t *testing.T) {
	m, err := ParseManifest([]byte(`
name: momo
animations:
  idle: {frames: 1, frame_duration_ms: 100}
behavior:
  idle:
    rules:
      - to: juggle
        kind: always
`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if _, err := BuildTable(m); err == nil {
		t.Fatalf("expected error for rule targeting unknown state")
	}
}

func TestBuildTableRejectsUnknownKind(t *testing.T) {
	m, err := ParseManifest([]byte(`
name: momo
animations:
  idle: {frames: 1, frame_duration_ms: 100}
behavior:
  idle:
    rules:
      - to: walk
        kind: phase_of_moon
`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if _, err := BuildTable(m); err == nil {
		t.Fatalf("expected error for unknown predicate kind")
	}
}

func TestDefaultManifest(t *testing.T) {
	m, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest: %v", err)
	}
	if m.Name != "momo" {
		t.Fatalf("Name = %q", m.Name)
	}
	for _, want := range []string{"idle", "walk", "run", "sleep"} {
		if _, ok := m.Animations[want]; !ok {
			t.Fatalf("embedded pet missing animation %q", want)
		}
	}
	if _, err := BuildTable(m); err != nil {
		t.Fatalf("BuildTable(default): %v", err)
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	write := func(dir, contents string) {
		t.Helper()
		full := filepath.Join(root, dir)
		if err := os.MkdirAll(full, 0o755); err != nil {
			t.Fatal(err)
		}
		if contents != "" {
			if err := os.WriteFile(filepath.Join(full, "pet.yaml"), []byte(contents), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	write("zumi", "name: zumi\nanimations:\n  idle: {frames: 1, frame_duration_ms: 100}\n")
	write("aki", "name: aki\nanimations:\n  idle: {frames: 1, frame_duration_ms: 100}\n")
	write("empty", "")

	manifests, err := List(root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("len = %d, want 2", len(manifests))
	}
	if manifests[0].Name != "aki" || manifests[1].Name != "zumi" {
		t.Fatalf("order = %s, %s", manifests[0].Name, manifests[1].Name)
	}
}
