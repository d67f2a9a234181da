package registry

import (
	"fmt"
	"os"

	"github.com/zjrosen/templater/internal/log"
	"github.com/zjrosen/templater/internal/paths"
)

// InitOptions configures Init.
type InitOptions struct {
	// Path is the base directory; templates go to <Path>/templater/templates.
	// Empty selects <home>/.config/templater/templates.
	Path string
	// Version is written into the record.
	Version string
	// Home resolves the home directory. Defaults to os.UserHomeDir.
	Home func() (string, error)
}

// Init creates the template root and persists a fresh record, overwriting
// any previous record. It does not check for an existing registry.
func Init(store Store, opts InitOptions) (*Record, error) {
	var (
		root string
		err  error
	)
	if opts.Path == "" {
		root, err = paths.DefaultTemplateRoot(opts.Home)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrHomeDirectoryNotFound, err)
		}
	} else {
		root, err = paths.TemplateRoot(opts.Path)
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating template root: %w", err)
	}

	rec := NewRecord(opts.Version, root)
	if err := store.Save(rec); err != nil {
		return nil, fmt.Errorf("saving registry: %w", err)
	}

	log.Info(log.CatRegistry, "registry initialized", "root", root, "version", opts.Version)
	return rec, nil
}

// Delete removes the template root and then the record's backing directory.
// The two removals are sequential; a failure in the second leaves the first done.
func Delete(store Store) error {
	rec, err := Guard(store)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(rec.TemplateRoot); err != nil {
		return fmt.Errorf("removing template root: %w", err)
	}
	if err := store.Remove(); err != nil {
		return fmt.Errorf("removing registry config: %w", err)
	}

	log.Info(log.CatRegistry, "registry deleted", "root", rec.TemplateRoot)
	return nil
}
