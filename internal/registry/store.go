package registry

import (
	"os"
	"path/filepath"
	"sync"
)

// Store persists the registry record. Every operation loads the record fresh,
// mutates a local copy and saves it back; the last writer wins.
type Store interface {
	// Load returns the persisted record. A missing record loads as the zero
	// (uninitialized) record.
	Load() (*Record, error)
	// Save persists rec, replacing any previous record.
	Save(rec *Record) error
	// Path returns the location of the persisted record.
	Path() (string, error)
	// Remove deletes the record's backing directory. A missing directory is not an error.
	Remove() error
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the record in memory. When dir is set, it also owns that
// directory on disk so that Remove has an observable effect.
type MemoryStore struct {
	mu     sync.Mutex
	dir    string
	record *Record
	saves  int
}

// NewMemoryStore returns an empty store. dir may be empty.
func NewMemoryStore(dir string) *MemoryStore {
	return &MemoryStore{dir: dir}
}

// Load returns a copy of the stored record.
func (s *MemoryStore) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return &Record{Templates: []Entry{}}, nil
	}
	rec := s.record.Clone()
	rec.Normalize()
	return rec, nil
}

// Save stores a copy of rec.
func (s *MemoryStore) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = rec.Clone()
	s.saves++
	return nil
}

// Path returns a pseudo path inside dir.
func (s *MemoryStore) Path() (string, error) {
	if s.dir == "" {
		return "", ErrConfigLocation
	}
	return filepath.Join(s.dir, "config.yaml"), nil
}

// Remove forgets the record and deletes dir if set.
func (s *MemoryStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	if s.dir == "" {
		return nil
	}
	return os.RemoveAll(s.dir)
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
