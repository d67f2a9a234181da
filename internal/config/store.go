package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/templater/internal/log"
	"github.com/zjrosen/templater/internal/paths"
	"github.com/zjrosen/templater/internal/registry"
)

// Compile-time check that FileStore implements registry.Store.
var _ registry.Store = (*FileStore)(nil)

// FileStore persists the registry record as YAML at
// <config dir>/<app>/<name>.yaml.
type FileStore struct {
	configDir string
	app       string
	name      string
}

// NewFileStore creates a FileStore. An empty configDir resolves to the user
// config directory when the path is first needed.
func NewFileStore(configDir, app, name string) *FileStore {
	return &FileStore{configDir: configDir, app: app, name: name}
}

// NewDefaultFileStore creates the FileStore for the templater record.
func NewDefaultFileStore(configDir string) *FileStore {
	return NewFileStore(configDir, paths.AppName, paths.RecordName)
}

// Path returns the record file location.
func (s *FileStore) Path() (string, error) {
	dir, err := paths.ConfigDir(s.configDir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", registry.ErrConfigLocation, err)
	}
	return filepath.Join(dir, s.app, s.name+".yaml"), nil
}

// Load reads the record. A missing file yields the zero record.
func (s *FileStore) Load() (*registry.Record, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Debug(log.CatConfig, "no registry record", "path", path)
		return &registry.Record{Templates: []registry.Entry{}}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rec registry.Record
	if err := v.Unmarshal(&rec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	rec.Normalize()
	return &rec, nil
}

// Save writes the record atomically (temp file, then rename).
func (s *FileStore) Save(rec *registry.Record) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(rec); err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	_ = encoder.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, "."+s.name+".yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debug(log.CatConfig, "registry saved", "path", path, "templates", len(rec.Templates))
	return nil
}

// Remove deletes the directory containing the record file.
func (s *FileStore) Remove() error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	parent := filepath.Dir(path)
	if parent == path || parent == "." || parent == string(filepath.Separator) {
		return fmt.Errorf("%w: %s has no parent directory", registry.ErrConfigLocation, path)
	}

	if _, err := os.Stat(parent); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(parent); err != nil {
		return fmt.Errorf("removing %s: %w", parent, err)
	}

	log.Info(log.CatConfig, "registry config removed", "dir", parent)
	return nil
}
