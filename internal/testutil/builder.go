// Package testutil provides helpers for building directory trees and git
// repositories in tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builder accumulates files and directories and writes them under a root.
type Builder struct {
	t     *testing.T
	root  string
	files map[string]string
	dirs  []string
}

// NewBuilder creates a builder rooted at root. The root is created on Build.
func NewBuilder(t *testing.T, root string) *Builder {
	t.Helper()
	return &Builder{t: t, root: root, files: make(map[string]string)}
}

// WithFile adds a file at a slash-separated path relative to the root.
func (b *Builder) WithFile(rel, content string) *Builder {
	b.files[rel] = content
	return b
}

// WithDir adds an empty directory.
func (b *Builder) WithDir(rel string) *Builder {
	b.dirs = append(b.dirs, rel)
	return b
}

// Build writes everything and returns the root.
func (b *Builder) Build() string {
	b.t.Helper()
	require.NoError(b.t, os.MkdirAll(b.root, 0o755))
	for _, d := range b.dirs {
		require.NoError(b.t, os.MkdirAll(filepath.Join(b.root, filepath.FromSlash(d)), 0o755))
	}
	WriteTree(b.t, b.root, b.files)
	return b.root
}

// WriteTree writes files (slash-separated relative path -> content) under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// ReadTree returns every regular file under root keyed by slash-separated
// relative path.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path) //nolint:gosec // test helper
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}
