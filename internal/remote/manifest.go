// Package remote imports templates from a catalogue repository and publishes
// local templates to one.
//
// A catalogue is a git repository with a config.json manifest at its root
// listing the directories that are templates:
//
//	{"templates": ["api", "cli"]}
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/zjrosen/templater/internal/registry"
)

// ManifestName is the manifest file at the root of a catalogue.
const ManifestName = "config.json"

// ErrMalformedManifest is returned when config.json exists but does not
// decode to {"templates": [...]}.
var ErrMalformedManifest = errors.New("malformed manifest")

// Manifest lists the templates a catalogue provides.
type Manifest struct {
	Templates []string `json:"templates"`
}

// ReadManifest reads the manifest at the root of dir.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is inside the scratch clone
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, registry.ErrInvalidRemoteManifest
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	// templates is required; a pointer tells absent and null apart from [].
	var raw struct {
		Templates *[]string `json:"templates"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w: %w", ManifestName, ErrMalformedManifest, err)
	}
	if raw.Templates == nil {
		return nil, fmt.Errorf("parsing %s: %w: missing \"templates\" array", ManifestName, ErrMalformedManifest)
	}
	return &Manifest{Templates: *raw.Templates}, nil
}

// WriteManifest writes m to the root of dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil { //nolint:gosec // G306: manifest is committed to a shared repository
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Contains reports whether name is listed.
func (m *Manifest) Contains(name string) bool {
	return slices.Contains(m.Templates, name)
}

// Add lists name, keeping the list sorted. Adding a listed name is a no-op.
func (m *Manifest) Add(name string) {
	if m.Contains(name) {
		return
	}
	m.Templates = append(m.Templates, name)
	slices.Sort(m.Templates)
}
