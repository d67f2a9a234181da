// Package registry holds the persisted template registry record, the
// consistency guard that validates it, and the init/delete lifecycle.
package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/zjrosen/templater/internal/paths"
)

// Kind records where a template came from. It is metadata only and never
// takes part in entry identity or ordering.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// Entry is a registered template.
type Entry struct {
	Name string `yaml:"name" mapstructure:"name" json:"name"`
	Kind Kind   `yaml:"kind" mapstructure:"kind" json:"kind"`
}

// Equal compares entries by name only; two entries with different kinds but
// the same name are the same template.
func (e Entry) Equal(other Entry) bool {
	return e.Name == other.Name
}

// Compare orders entries lexicographically by name. Kind is ignored.
func Compare(a, b Entry) int {
	return strings.Compare(a.Name, b.Name)
}

// Record is the persisted registry: where templates live and which are registered.
type Record struct {
	Version      string  `yaml:"version" mapstructure:"version"`
	TemplateRoot string  `yaml:"template_root" mapstructure:"template_root"`
	Initialized  bool    `yaml:"initialized" mapstructure:"initialized"`
	Templates    []Entry `yaml:"templates" mapstructure:"templates"`
}

// NewRecord returns an initialized record with no templates.
func NewRecord(version, root string) *Record {
	return &Record{
		Version:      version,
		TemplateRoot: root,
		Initialized:  true,
		Templates:    []Entry{},
	}
}

// Add inserts e, replacing any entry with the same name, and keeps Templates sorted.
func (r *Record) Add(e Entry) {
	if e.Kind == "" {
		e.Kind = KindLocal
	}
	if i, ok := r.index(e.Name); ok {
		r.Templates[i] = e
		return
	}
	r.Templates = append(r.Templates, e)
	slices.SortFunc(r.Templates, Compare)
}

// Find returns the entry registered under name.
func (r *Record) Find(name string) (Entry, bool) {
	if i, ok := r.index(name); ok {
		return r.Templates[i], true
	}
	return Entry{}, false
}

// Remove drops the entry registered under name and reports whether it existed.
func (r *Record) Remove(name string) bool {
	i, ok := r.index(name)
	if !ok {
		return false
	}
	r.Templates = slices.Delete(r.Templates, i, i+1)
	return true
}

// Names returns template names in registry order.
func (r *Record) Names() []string {
	names := make([]string, len(r.Templates))
	for i, e := range r.Templates {
		names[i] = e.Name
	}
	return names
}

// TemplateDir is the directory holding the template name.
func (r *Record) TemplateDir(name string) string {
	return filepath.Join(r.TemplateRoot, name)
}

// ScratchDir is the directory clones are made into.
func (r *Record) ScratchDir() string {
	return filepath.Join(r.TemplateRoot, paths.ScratchDirName)
}

// Normalize sorts templates, collapses duplicate names (last one wins) and
// fills in missing kinds. Records loaded from disk pass through it.
func (r *Record) Normalize() {
	if r.Templates == nil {
		r.Templates = []Entry{}
		return
	}
	entries := r.Templates
	r.Templates = make([]Entry, 0, len(entries))
	for _, e := range entries {
		r.Add(e)
	}
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.Templates = slices.Clone(r.Templates)
	if c.Templates == nil {
		c.Templates = []Entry{}
	}
	return &c
}

func (r *Record) index(name string) (int, bool) {
	return slices.BinarySearchFunc(r.Templates, name, func(e Entry, n string) int {
		return strings.Compare(e.Name, n)
	})
}

// ValidateName checks that name can be used as a template directory.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "",
		name == ".", name == "..",
		name == paths.ScratchDirName,
		strings.ContainsAny(name, `/\`),
		filepath.Base(name) != name:
		return ErrInvalidTemplateName
	}
	return nil
}
