// Package config provides configuration types, defaults, and registry record
// persistence for templater.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/templater/internal/log"
)

// Git backends.
const (
	BackendGoGit = "go-git" // in-process clone via go-git
	BackendExec  = "exec"   // shell out to the git binary
)

// DefaultRemoteURL is the catalogue fetched by `templater remote get` when no URL is given.
const DefaultRemoteURL = "https://github.com/andreishark/templater-templates.git"

// Config holds all configuration options for templater.
type Config struct {
	ConfigDir string       `mapstructure:"config_dir"` // overrides the user config directory holding the registry record
	Debug     bool         `mapstructure:"debug"`
	LogFile   string       `mapstructure:"log_file"`
	LogLevel  string       `mapstructure:"log_level"` // debug, info, warn, error
	Remote    RemoteConfig `mapstructure:"remote"`
	Git       GitConfig    `mapstructure:"git"`

	// Flags toggles features that are off by default, e.g. remote-publish.
	Flags map[string]bool `mapstructure:"flags"`
}

// RemoteConfig holds settings for the template catalogue.
type RemoteConfig struct {
	URL    string `mapstructure:"url"`
	Branch string `mapstructure:"branch"` // empty clones the remote HEAD
	Depth  int    `mapstructure:"depth"`  // 0 is a full clone
	Token  string `mapstructure:"token"`  // HTTPS token for private catalogues (go-git backend)
}

// GitConfig selects how git operations run.
type GitConfig struct {
	Backend string `mapstructure:"backend"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Debug:    false,
		LogFile:  DefaultLogFile(),
		LogLevel: "debug",
		Remote: RemoteConfig{
			URL:   DefaultRemoteURL,
			Depth: 1,
		},
		Git: GitConfig{
			Backend: BackendGoGit,
		},
	}
}

// DefaultLogFile returns the debug log location. It lives outside the registry
// config directory so that a rollback never removes an open log.
func DefaultLogFile() string {
	return filepath.Join(os.TempDir(), "templater-debug.log")
}

// DefaultSettingsFile returns ~/.templater.yaml, or empty if home is unknown.
func DefaultSettingsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".templater.yaml")
}

// Validate checks the configuration for invalid values.
func Validate(c Config) error {
	switch c.Git.Backend {
	case BackendGoGit, BackendExec:
	default:
		return fmt.Errorf("git.backend: unknown backend %q (valid: %s, %s)", c.Git.Backend, BackendGoGit, BackendExec)
	}

	if c.Remote.Depth < 0 {
		return fmt.Errorf("remote.depth: must be >= 0, got %d", c.Remote.Depth)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}

	if c.Debug && c.LogFile == "" {
		return fmt.Errorf("log_file: required when debug is enabled")
	}

	log.Debug(log.CatConfig, "configuration validated", "backend", c.Git.Backend, "remote", c.Remote.URL)
	return nil
}
