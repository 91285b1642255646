package pets

import (
	"embed"
	"fmt"
)

//go:embed default/pet.yaml
var defaultFS embed.FS

// DefaultManifest returns the built-in pet shipped with the binary, used
// when no pet directory is configured or the configured pet fails to load.
func DefaultManifest() (*Manifest, error) {
	data, err := defaultFS.ReadFile("default/pet.yaml")
	if err != nil {
		return nil, fmt.Errorf("pets: read embedded manifest: %w", err)
	}
	return ParseManifest(data)
}
