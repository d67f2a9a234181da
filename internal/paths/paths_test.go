package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplateRoot(t *testing.T) {
	root, err := TemplateRoot("/data")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/data", "templater", "templates"), root)
}

func TestTemplateRoot_Relative(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	root, err := TemplateRoot("work")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cwd, "work", "templater", "templates"), root)
}

func TestDefaultTemplateRoot(t *testing.T) {
	home := func() (string, error) { return "/home/user", nil }

	root, err := DefaultTemplateRoot(home)
	require.NoError(t, err)
	require.Equal(t, "/home/user/.config/templater/templates", filepath.ToSlash(root))

	again, err := DefaultTemplateRoot(home)
	require.NoError(t, err)
	require.Equal(t, root, again)
}

func TestDefaultTemplateRoot_HomeFailure(t *testing.T) {
	want := errors.New("no home")
	_, err := DefaultTemplateRoot(func() (string, error) { return "", want })
	require.ErrorIs(t, err, want)

	_, err = DefaultTemplateRoot(func() (string, error) { return "", nil })
	require.Error(t, err)
}

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	got, err := ConfigDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)
}

func TestCanonicalize(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	got, err := Canonicalize(link)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = Canonicalize(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestIsDirAndExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	require.True(t, IsDir(dir))
	require.False(t, IsDir(file))
	require.False(t, IsDir(filepath.Join(dir, "nope")))
	require.True(t, Exists(file))
	require.False(t, Exists(filepath.Join(dir, "nope")))
}
