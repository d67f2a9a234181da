// Package paths provides path resolution utilities.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName names the application directory under both the config and the template base.
	AppName = "templater"

	// RecordName is the registry record file name, without extension.
	RecordName = "config"

	// TemplatesDirName is the directory holding saved templates.
	TemplatesDirName = "templates"

	// ScratchDirName is the directory under the template root used for clones.
	// It is reserved and can never be a template name.
	ScratchDirName = "temp"
)

// TemplateRoot returns <base>/templater/templates with base made absolute.
//
//   - "/data"   -> "/data/templater/templates"
//   - "work"    -> "<cwd>/work/templater/templates"
func TemplateRoot(base string) (string, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", base, err)
	}
	return filepath.Join(abs, AppName, TemplatesDirName), nil
}

// DefaultTemplateRoot returns <home>/.config/templater/templates.
// home is usually os.UserHomeDir.
func DefaultTemplateRoot(home func() (string, error)) (string, error) {
	if home == nil {
		home = os.UserHomeDir
	}
	dir, err := home()
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", fmt.Errorf("empty home directory")
	}
	return TemplateRoot(filepath.Join(dir, ".config"))
}

// ConfigDir returns the directory holding the registry record's application
// directory. An override wins over os.UserConfigDir.
func ConfigDir(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return dir, nil
}

// Canonicalize returns the absolute path of p with every symlink resolved.
// It fails when p does not exist.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// IsDir reports whether p exists and is a directory, following symlinks.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// Exists reports whether anything exists at p.
func Exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}
