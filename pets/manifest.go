// Package pets loads pet manifests: which animations a pet has, how big it
// renders, and optional overrides for the behavior table.
package pets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mikan-dev/deskpet/behavior"
)

// sprite sizes in window units
const (
	spriteSmall  = 32
	spriteMedium = 48
	spriteLarge  = 64
)

var nameRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

type Manifest struct {
	Name             string                  `yaml:"name"`
	DisplayName      string                  `yaml:"display_name"`
	SpriteSize       string                  `yaml:"sprite_size"`
	Animations       map[string]AnimationDef `yaml:"animations"`
	DefaultAnimation string                  `yaml:"default_animation"`
	Behavior         map[string]StateSpec    `yaml:"behavior"`
}

type AnimationDef struct {
	Frames          int  `yaml:"frames"`
	FrameDurationMS int  `yaml:"frame_duration_ms"`
	Loop            bool `yaml:"loop"`
}

// StateSpec overrides or adds one behavior state.
type StateSpec struct {
	Animation     string     `yaml:"animation"`
	MinDurationMS int        `yaml:"min_duration_ms"`
	CanMove       bool       `yaml:"can_move"`
	Speed         float64    `yaml:"speed"`
	Interruptible *bool      `yaml:"interruptible"`
	Rules         []RuleSpec `yaml:"rules"`
}

// RuleSpec is one declarative transition rule. Kind names a registered
// predicate; args are passed to its compiler.
type RuleSpec struct {
	To   string         `yaml:"to"`
	Kind string         `yaml:"kind"`
	Args map[string]any `yaml:"args"`
}

// ValidateName reports whether a pet name is usable as a directory name.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("pets: invalid pet name %q", name)
	}
	return nil
}

// ParseManifest decodes and validates a pet.yaml document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("pets: unmarshal manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads dir/pet.yaml.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "pet.yaml"))
	if err != nil {
		return nil, fmt.Errorf("pets: read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("pets: %s: %w", dir, err)
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if err := ValidateName(m.Name); err != nil {
		return err
	}
	if len(m.Animations) == 0 {
		return fmt.Errorf("pets: manifest %s has no animations", m.Name)
	}
	for name, def := range m.Animations {
		if def.Frames <= 0 {
			return fmt.Errorf("pets: animation %s has %d frames", name, def.Frames)
		}
		if def.FrameDurationMS <= 0 {
			return fmt.Errorf("pets: animation %s has non-positive frame duration", name)
		}
	}
	if m.DefaultAnimation == "" {
		m.DefaultAnimation = "idle"
	}
	if _, ok := m.Animations[m.DefaultAnimation]; !ok {
		return fmt.Errorf("pets: default animation %q not defined", m.DefaultAnimation)
	}
	switch m.SpriteSize {
	case "", "small", "medium", "large":
	default:
		return fmt.Errorf("pets: unknown sprite size %q", m.SpriteSize)
	}
	return nil
}

// SpriteSizeUnits maps the manifest's size class to window units.
func (m *Manifest) SpriteSizeUnits() float64 {
	switch m.SpriteSize {
	case "small":
		return spriteSmall
	case "large":
		return spriteLarge
	default:
		return spriteMedium
	}
}

// AnimationNames returns the defined animation names, sorted.
func (m *Manifest) AnimationNames() []string {
	names := make([]string, 0, len(m.Animations))
	for name := range m.Animations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildTable produces the pet's behavior table: the built-in defaults with
// the manifest's behavior block layered on top. A state named in the
// manifest replaces the default entry wholesale; states the manifest does
// not mention keep their defaults.
func BuildTable(m *Manifest) (behavior.Table, error) {
	table := behavior.DefaultTable()
	for name, spec := range m.Behavior {
		cfg, err := compileState(name, spec)
		if err != nil {
			return nil, err
		}
		table[behavior.StateID(name)] = cfg
	}
	for id, cfg := range table {
		for _, rule := range cfg.Rules {
			if _, ok := table[rule.To]; !ok {
				return nil, fmt.Errorf("pets: state %s has rule targeting unknown state %s", id, rule.To)
			}
		}
	}
	return table, nil
}

func compileState(name string, spec StateSpec) (behavior.StateConfig, error) {
	animation := spec.Animation
	if animation == "" {
		animation = name
	}
	interruptible := true
	if spec.Interruptible != nil {
		interruptible = *spec.Interruptible
	}
	cfg := behavior.StateConfig{
		Animation:     animation,
		MinDuration:   time.Duration(spec.MinDurationMS) * time.Millisecond,
		CanMove:       spec.CanMove,
		Speed:         spec.Speed,
		Interruptible: interruptible,
	}
	for i, rule := range spec.Rules {
		check, err := behavior.CompileCheck(rule.Kind, rule.Args)
		if err != nil {
			return behavior.StateConfig{}, fmt.Errorf("pets: state %s rule %d: %w", name, i, err)
		}
		cfg.Rules = append(cfg.Rules, behavior.Rule{
			To:    behavior.StateID(rule.To),
			Check: check,
		})
	}
	return cfg, nil
}

// List returns the manifests of every pet directory under root that holds a
// valid pet.yaml, sorted by name. Directories without a manifest are
// skipped; broken manifests abort the scan.
func List(root string) ([]*Manifest, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("pets: read dir %s: %w", root, err)
	}
	var manifests []*Manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "pet.yaml")); err != nil {
			continue
		}
		m, err := LoadManifest(dir)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Name < manifests[j].Name })
	return manifests, nil
}
