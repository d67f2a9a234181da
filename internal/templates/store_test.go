package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zjrosen/templater/internal/registry"
	"github.com/zjrosen/templater/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	base    string
	records *registry.MemoryStore
	store   *Store
	rec     *registry.Record
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	configDir := filepath.Join(base, "config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	records := registry.NewMemoryStore(configDir)
	rec, err := registry.Init(records, registry.InitOptions{Path: filepath.Join(base, "data"), Version: "1.0"})
	require.NoError(t, err)

	return &fixture{base: base, records: records, store: NewStore(records), rec: rec}
}

func (f *fixture) source(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(f.base, "src", name)
	testutil.WriteTree(t, dir, files)
	return dir
}

func (f *fixture) dest(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(f.base, "out", name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	files := map[string]string{
		"a.txt":     "alpha",
		"b.txt":     "bravo",
		"sub/c.txt": "charlie",
	}
	src := f.source(t, "web", files)

	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src}))

	out := f.dest(t, "project")
	require.NoError(t, f.store.Load("web", out))
	require.Equal(t, files, testutil.ReadTree(t, out))

	entries, err := f.store.List()
	require.NoError(t, err)
	require.Equal(t, []registry.Entry{{Name: "web", Kind: registry.KindLocal}}, entries)
}

func TestStore_SaveExistingWithoutOverwrite(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src}))

	other := f.source(t, "v2", map[string]string{"a.txt": "two"})
	err := f.store.Save(SaveRequest{Name: "web", Source: other})
	require.ErrorIs(t, err, registry.ErrTemplateAlreadyExists)

	require.Equal(t, map[string]string{"a.txt": "one"}, testutil.ReadTree(t, f.rec.TemplateDir("web")))
}

func TestStore_OverwriteReplacesContents(t *testing.T) {
	f := newFixture(t)
	v1 := f.source(t, "v1", map[string]string{"a.txt": "one", "b.txt": "bravo"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: v1}))

	v2 := f.source(t, "v2", map[string]string{"c.txt": "charlie"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: v2, Overwrite: true}))

	require.Equal(t, map[string]string{"c.txt": "charlie"}, testutil.ReadTree(t, f.rec.TemplateDir("web")))

	entries, err := f.store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestStore_OverwriteWhenMissing(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})

	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src, Overwrite: true}))
	require.Equal(t, map[string]string{"a.txt": "one"}, testutil.ReadTree(t, f.rec.TemplateDir("web")))
}

func TestStore_SaveInvalidSource(t *testing.T) {
	f := newFixture(t)

	err := f.store.Save(SaveRequest{Name: "web", Source: filepath.Join(f.base, "missing")})
	require.ErrorIs(t, err, registry.ErrInvalidSourcePath)

	file := filepath.Join(f.base, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	err = f.store.Save(SaveRequest{Name: "web", Source: file})
	require.ErrorIs(t, err, registry.ErrInvalidSourcePath)

	entries, err := f.store.List()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStore_SaveInvalidName(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})

	for _, name := range []string{"", "temp", "../escape", "a/b"} {
		err := f.store.Save(SaveRequest{Name: name, Source: src})
		assert.ErrorIs(t, err, registry.ErrInvalidTemplateName, "name %q", name)
	}
}

func TestStore_SaveSkipsNames(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "repo", map[string]string{"a.txt": "one", ".git/HEAD": "ref"})

	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src, Skip: []string{".git"}}))
	require.Equal(t, map[string]string{"a.txt": "one"}, testutil.ReadTree(t, f.rec.TemplateDir("web")))
}

func TestStore_ListSortedByName(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, f.store.Save(SaveRequest{Name: name, Source: src}))
	}

	entries, err := f.store.List()
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestStore_SavesFromSeparateStoresAccumulate(t *testing.T) {
	f := newFixture(t)
	other := NewStore(f.records)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})

	require.NoError(t, f.store.Save(SaveRequest{Name: "one", Source: src}))
	require.NoError(t, other.Save(SaveRequest{Name: "two", Source: src}))

	rec, err := f.records.Load()
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, rec.Names())
}

func TestStore_LoadUnknownTemplate(t *testing.T) {
	f := newFixture(t)
	err := f.store.Load("ghost", f.dest(t, "project"))
	require.ErrorIs(t, err, registry.ErrTemplateDoesNotExist)
}

func TestStore_LoadInvalidDestination(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src}))

	err := f.store.Load("web", filepath.Join(f.base, "nowhere"))
	require.ErrorIs(t, err, registry.ErrInvalidDestinationPath)

	file := filepath.Join(f.base, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	err = f.store.Load("web", file)
	require.ErrorIs(t, err, registry.ErrInvalidDestinationPath)
}

func TestStore_LoadMissingOnDisk(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src}))
	require.NoError(t, os.RemoveAll(f.rec.TemplateDir("web")))

	err := f.store.Load("web", f.dest(t, "project"))
	require.ErrorIs(t, err, registry.ErrTemplateDoesNotExist)
}

func TestStore_LoadDoesNotTouchRecord(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src}))
	saves := f.records.Saves()

	require.NoError(t, f.store.Load("web", f.dest(t, "project")))
	require.Equal(t, saves, f.records.Saves())
}

func TestStore_LoadMergesIntoDestination(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "template"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src}))

	out := f.dest(t, "project")
	testutil.WriteTree(t, out, map[string]string{"a.txt": "mine", "keep.txt": "kept"})

	require.NoError(t, f.store.Load("web", out))
	require.Equal(t, map[string]string{"a.txt": "template", "keep.txt": "kept"}, testutil.ReadTree(t, out))
}

func TestStore_NotInitialized(t *testing.T) {
	base := t.TempDir()
	configDir := filepath.Join(base, "config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	store := NewStore(registry.NewMemoryStore(configDir))

	src := filepath.Join(base, "src")
	testutil.WriteTree(t, src, map[string]string{"a.txt": "one"})

	err := store.Save(SaveRequest{Name: "web", Source: src})
	require.ErrorIs(t, err, registry.ErrNotInitialized)

	_, err = store.List()
	require.ErrorIs(t, err, registry.ErrNotInitialized)

	_, statErr := os.Stat(configDir)
	require.True(t, os.IsNotExist(statErr), "config directory should be rolled back")
}

func TestStore_SaveGuardsBeforeValidatingName(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})
	require.NoError(t, os.RemoveAll(f.rec.TemplateRoot))

	err := f.store.Save(SaveRequest{Name: "../bad", Source: src})
	require.ErrorIs(t, err, registry.ErrNotInitialized)
	require.NotErrorIs(t, err, registry.ErrInvalidTemplateName)

	rec, err := f.records.Load()
	require.NoError(t, err)
	require.False(t, rec.Initialized, "corrupt registry should be rolled back")
}

func TestStore_RootRemovedRollsBack(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.rec.TemplateRoot))

	_, err := f.store.Show()
	require.ErrorIs(t, err, registry.ErrNotInitialized)

	rec, err := f.records.Load()
	require.NoError(t, err)
	require.False(t, rec.Initialized)
}

func TestStore_Remove(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src}))

	require.NoError(t, f.store.Remove("web"))
	require.NoDirExists(t, f.rec.TemplateDir("web"))

	entries, err := f.store.List()
	require.NoError(t, err)
	require.Empty(t, entries)

	require.ErrorIs(t, f.store.Remove("web"), registry.ErrTemplateDoesNotExist)
}

func TestStore_Show(t *testing.T) {
	f := newFixture(t)
	src := f.source(t, "v1", map[string]string{"a.txt": "one"})
	require.NoError(t, f.store.Save(SaveRequest{Name: "web", Source: src}))

	view, err := f.store.Show()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(f.base, "config", "config.yaml"), view.RecordPath)
	require.Equal(t, "1.0", view.Version)
	require.Equal(t, f.rec.TemplateRoot, view.TemplateRoot)
	require.Equal(t, []registry.Entry{{Name: "web", Kind: registry.KindLocal}}, view.Templates)
}

func TestStore_EmptyDirectoriesSurviveRoundTrip(t *testing.T) {
	f := newFixture(t)
	src := testutil.NewBuilder(t, filepath.Join(f.base, "src", "scaffold")).
		WithFile("go.mod", "module example").
		WithDir("internal").
		WithDir("cmd/app").
		Build()

	require.NoError(t, f.store.Save(SaveRequest{Name: "scaffold", Source: src}))

	out := f.dest(t, "project")
	require.NoError(t, f.store.Load("scaffold", out))
	require.DirExists(t, filepath.Join(out, "internal"))
	require.DirExists(t, filepath.Join(out, "cmd", "app"))
	require.FileExists(t, filepath.Join(out, "go.mod"))
}

func TestStore_InterleavedWritersLoseUpdate(t *testing.T) {
	f := newFixture(t)

	// Two invocations load the same record before either saves.
	first, err := f.records.Load()
	require.NoError(t, err)
	second, err := f.records.Load()
	require.NoError(t, err)

	first.Add(registry.Entry{Name: "one"})
	second.Add(registry.Entry{Name: "two"})
	require.NoError(t, f.records.Save(first))
	require.NoError(t, f.records.Save(second))

	// Last writer wins: "one" is gone.
	entries, err := f.store.List()
	require.NoError(t, err)
	require.Equal(t, []registry.Entry{{Name: "two", Kind: registry.KindLocal}}, entries)
}
