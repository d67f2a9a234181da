// Package flags provides feature flag support for templater.
// Flags come from the "flags" map of the settings file, are read-only after
// initialization, and default to disabled.
package flags

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/zjrosen/templater/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagRemotePublish enables `templater remote publish`, which pushes
	// commits to a shared catalogue repository.
	FlagRemotePublish = "remote-publish"
)

// ErrDisabled is returned by Require for a disabled flag.
var ErrDisabled = errors.New("feature is disabled")

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. The map is copied.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	log.Debug(log.CatConfig, "feature flags initialized", "count", len(r.flags), "enabled", r.EnabledNames())
	return r
}

// Enabled reports whether the named flag is enabled. Unknown flags and a nil
// registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// Require returns ErrDisabled, with instructions for turning the flag on,
// unless name is enabled.
func (r *Registry) Require(name string) error {
	if r.Enabled(name) {
		return nil
	}
	return fmt.Errorf("%w: add `flags: {%s: true}` to ~/.templater.yaml to enable it", ErrDisabled, name)
}

// EnabledNames returns the enabled flags in sorted order.
func (r *Registry) EnabledNames() []string {
	if r == nil {
		return nil
	}
	var names []string
	for name, on := range r.flags {
		if on {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
