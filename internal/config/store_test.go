package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/templater/internal/registry"
)

func TestFileStore_Path(t *testing.T) {
	dir := t.TempDir()
	store := NewDefaultFileStore(dir)

	path, err := store.Path()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "templater", "config.yaml"), path)
}

func TestFileStore_LoadMissingIsZero(t *testing.T) {
	store := NewDefaultFileStore(t.TempDir())

	rec, err := store.Load()
	require.NoError(t, err)
	require.False(t, rec.Initialized)
	require.Empty(t, rec.TemplateRoot)
	require.NotNil(t, rec.Templates)
}

func TestFileStore_Roundtrip(t *testing.T) {
	store := NewDefaultFileStore(t.TempDir())

	rec := registry.NewRecord("1.0", "/home/user/.config/templater/templates")
	rec.Add(registry.Entry{Name: "web", Kind: registry.KindRemote})
	rec.Add(registry.Entry{Name: "api", Kind: registry.KindLocal})
	require.NoError(t, store.Save(rec))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "1.0", loaded.Version)
	assert.Equal(t, rec.TemplateRoot, loaded.TemplateRoot)
	assert.True(t, loaded.Initialized)
	assert.Equal(t, []registry.Entry{
		{Name: "api", Kind: registry.KindLocal},
		{Name: "web", Kind: registry.KindRemote},
	}, loaded.Templates)
}

func TestFileStore_SaveWritesYAML(t *testing.T) {
	store := NewDefaultFileStore(t.TempDir())
	rec := registry.NewRecord("dev", "/data/templater/templates")
	rec.Add(registry.Entry{Name: "api"})
	require.NoError(t, store.Save(rec))

	path, err := store.Path()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "version: dev")
	assert.Contains(t, content, "template_root: /data/templater/templates")
	assert.Contains(t, content, "initialized: true")
	assert.Contains(t, content, "name: api")
	assert.Contains(t, content, "kind: local")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file should be renamed away")
}

func TestFileStore_LoadNormalizesHandEditedRecord(t *testing.T) {
	store := NewDefaultFileStore(t.TempDir())
	path, err := store.Path()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`version: "1.0"
template_root: /t
initialized: true
templates:
  - name: zeta
  - name: alpha
    kind: remote
  - name: zeta
    kind: remote
`), 0o644))

	rec, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, []registry.Entry{
		{Name: "alpha", Kind: registry.KindRemote},
		{Name: "zeta", Kind: registry.KindRemote},
	}, rec.Templates)
}

func TestFileStore_LoadInvalidYAML(t *testing.T) {
	store := NewDefaultFileStore(t.TempDir())
	path, err := store.Path()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("templates: [unclosed"), 0o644))

	_, err = store.Load()
	require.Error(t, err)
}

func TestFileStore_Remove(t *testing.T) {
	store := NewDefaultFileStore(t.TempDir())
	require.NoError(t, store.Save(registry.NewRecord("1.0", "/t")))

	path, err := store.Path()
	require.NoError(t, err)

	require.NoError(t, store.Remove())
	_, err = os.Stat(filepath.Dir(path))
	require.True(t, os.IsNotExist(err))

	// Removing again is fine.
	require.NoError(t, store.Remove())
}

// A record with initialized=false on disk is rolled back by any guarded operation.
func TestFileStore_GuardRollback(t *testing.T) {
	store := NewDefaultFileStore(t.TempDir())
	require.NoError(t, store.Save(&registry.Record{Version: "1.0", TemplateRoot: t.TempDir(), Initialized: false}))

	path, err := store.Path()
	require.NoError(t, err)

	_, err = registry.Guard(store)
	require.ErrorIs(t, err, registry.ErrNotInitialized)

	_, err = os.Stat(filepath.Dir(path))
	require.True(t, os.IsNotExist(err), "record directory should be gone after rollback")
}
