// Package templates saves directory trees into the registry and loads them back out.
package templates

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/zjrosen/templater/internal/fscopy"
	"github.com/zjrosen/templater/internal/log"
	"github.com/zjrosen/templater/internal/paths"
	"github.com/zjrosen/templater/internal/registry"
)

// Store copies templates in and out of the template root and keeps the
// registry record in sync.
type Store struct {
	records registry.Store
	fs      billy.Filesystem
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithFilesystem sets the filesystem copies run on. Paths are absolute, so it
// must be rooted at "/".
func WithFilesystem(fs billy.Filesystem) StoreOption {
	return func(s *Store) { s.fs = fs }
}

// NewStore creates a Store over the given record store.
func NewStore(records registry.Store, opts ...StoreOption) *Store {
	s := &Store{records: records, fs: fscopy.OS()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records returns the record store.
func (s *Store) Records() registry.Store {
	return s.records
}

// SaveRequest describes a save.
type SaveRequest struct {
	Name      string
	Source    string
	Overwrite bool
	Kind      registry.Kind // defaults to KindLocal
	// Skip names direct children of Source that are not copied.
	Skip []string
}

// Save copies Source into <root>/<Name> and registers it.
//
// The copy and the record update are not transactional: if copying fails the
// destination is left partially populated and the record is not updated.
func (s *Store) Save(req SaveRequest) error {
	rec, err := registry.Guard(s.records)
	if err != nil {
		return err
	}

	if err := registry.ValidateName(req.Name); err != nil {
		return fmt.Errorf("template %q: %w", req.Name, err)
	}
	kind := req.Kind
	if kind == "" {
		kind = registry.KindLocal
	}

	source, err := paths.Canonicalize(req.Source)
	if err != nil {
		return fmt.Errorf("%w: %w", registry.ErrInvalidSourcePath, err)
	}
	if !paths.IsDir(source) {
		return fmt.Errorf("%w: %s", registry.ErrInvalidSourcePath, source)
	}

	dest := rec.TemplateDir(req.Name)
	exists, err := s.exists(dest)
	if err != nil {
		return err
	}
	if exists && !req.Overwrite {
		return fmt.Errorf("template %q: %w", req.Name, registry.ErrTemplateAlreadyExists)
	}
	if exists {
		log.Debug(log.CatStore, "removing template for overwrite", "name", req.Name, "dest", dest)
		if err := util.RemoveAll(s.fs, dest); err != nil {
			return fmt.Errorf("removing %s: %w", dest, err)
		}
	}

	if err := s.fs.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	var filters []fscopy.Filter
	if len(req.Skip) > 0 {
		filters = append(filters, fscopy.SkipNames(req.Skip...))
	}
	if err := fscopy.CopyContents(s.fs, source, dest, filters...); err != nil {
		log.ErrorErr(log.CatStore, "copy failed, template left partial", err, "name", req.Name, "dest", dest)
		return fmt.Errorf("saving template %q: %w", req.Name, err)
	}

	rec.Add(registry.Entry{Name: req.Name, Kind: kind})
	if err := s.records.Save(rec); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}

	log.Info(log.CatStore, "template saved", "name", req.Name, "kind", kind, "source", source)
	return nil
}

// Load copies the template name into dest, which must be an existing directory.
// The registry is not modified.
func (s *Store) Load(name, dest string) error {
	target, err := paths.Canonicalize(dest)
	if err != nil {
		return fmt.Errorf("%w: %w", registry.ErrInvalidDestinationPath, err)
	}
	if !paths.IsDir(target) {
		return fmt.Errorf("%w: %s", registry.ErrInvalidDestinationPath, target)
	}

	rec, err := registry.Guard(s.records)
	if err != nil {
		return err
	}

	if _, ok := rec.Find(name); !ok {
		return fmt.Errorf("template %q: %w", name, registry.ErrTemplateDoesNotExist)
	}

	source := rec.TemplateDir(name)
	if !paths.IsDir(source) {
		log.Warn(log.CatStore, "registered template missing on disk", "name", name, "dir", source)
		return fmt.Errorf("template %q: %w", name, registry.ErrTemplateDoesNotExist)
	}

	if err := fscopy.CopyContents(s.fs, source, target); err != nil {
		return fmt.Errorf("loading template %q: %w", name, err)
	}

	log.Info(log.CatStore, "template loaded", "name", name, "dest", target)
	return nil
}

// Remove deletes the template name from disk and from the registry.
func (s *Store) Remove(name string) error {
	rec, err := registry.Guard(s.records)
	if err != nil {
		return err
	}

	if !rec.Remove(name) {
		return fmt.Errorf("template %q: %w", name, registry.ErrTemplateDoesNotExist)
	}

	if err := util.RemoveAll(s.fs, rec.TemplateDir(name)); err != nil {
		return fmt.Errorf("removing template %q: %w", name, err)
	}
	if err := s.records.Save(rec); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}

	log.Info(log.CatStore, "template removed", "name", name)
	return nil
}

// List returns the registered templates in name order.
func (s *Store) List() ([]registry.Entry, error) {
	rec, err := registry.Guard(s.records)
	if err != nil {
		return nil, err
	}
	return rec.Templates, nil
}

// ConfigView is the registry as shown by `show config`.
type ConfigView struct {
	RecordPath   string
	Version      string
	TemplateRoot string
	Templates    []registry.Entry
}

// Show returns the registry together with the record's location.
func (s *Store) Show() (ConfigView, error) {
	rec, err := registry.Guard(s.records)
	if err != nil {
		return ConfigView{}, err
	}

	path, err := s.records.Path()
	if err != nil {
		return ConfigView{}, err
	}

	return ConfigView{
		RecordPath:   path,
		Version:      rec.Version,
		TemplateRoot: rec.TemplateRoot,
		Templates:    rec.Templates,
	}, nil
}

func (s *Store) exists(path string) (bool, error) {
	_, err := s.fs.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
