// Package fscopy copies directory trees between locations of a billy.Filesystem.
//
// Copies follow symlinks: a link to a file is copied as a regular file and a
// link to a directory is copied as a directory. Copies are not transactional;
// a failure leaves whatever was written so far in place.
package fscopy

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/zjrosen/templater/internal/log"
)

// OS returns a filesystem rooted at "/" backed by the operating system.
func OS() billy.Filesystem {
	return osfs.New("/")
}

// Filter decides whether a direct child of the source directory is copied.
type Filter func(name string) bool

// SkipNames returns a Filter that skips children with any of the given names.
func SkipNames(names ...string) Filter {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	return func(name string) bool {
		_, ok := skip[name]
		return !ok
	}
}

// CopyContents copies every direct child of src into dst, which must already
// exist. Directories are copied recursively as a unit, files byte for byte.
// Each child keeps its own name in dst.
func CopyContents(fs billy.Filesystem, src, dst string, filters ...Filter) error {
	entries, err := fs.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	for _, entry := range entries {
		if !accept(entry.Name(), filters) {
			continue
		}
		if err := copyEntry(fs, fs.Join(src, entry.Name()), fs.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	log.Debug(log.CatCopy, "copied contents", "src", src, "dst", dst, "entries", len(entries))
	return nil
}

// CopyTree copies the directory src to dst, creating dst and any missing parents.
func CopyTree(fs billy.Filesystem, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("copy tree %s: not a directory", src)
	}

	if err := fs.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	entries, err := fs.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	for _, entry := range entries {
		if err := copyEntry(fs, fs.Join(src, entry.Name()), fs.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// copyEntry copies a single path, resolving symlinks first.
func copyEntry(fs billy.Filesystem, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if info.IsDir() {
		return CopyTree(fs, src, dst)
	}
	return CopyFile(fs, src, dst, info.Mode().Perm())
}

// CopyFile copies a single file, truncating dst if it exists.
func CopyFile(fs billy.Filesystem, src, dst string, perm os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return nil
}

func accept(name string, filters []Filter) bool {
	for _, f := range filters {
		if !f(name) {
			return false
		}
	}
	return true
}
