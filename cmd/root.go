// Package cmd wires the templater command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/templater/internal/config"
	"github.com/zjrosen/templater/internal/git"
	"github.com/zjrosen/templater/internal/log"
	"github.com/zjrosen/templater/internal/registry"
	"github.com/zjrosen/templater/internal/templates"
)

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "templater",
	Short: "Save directories as templates and load them anywhere",
	Long: `templater keeps a registry of directory templates.

Save a directory under a name, load it into new projects, and import
a catalogue of templates from a git repository.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"settings file (default: ~/.templater.yaml)")
	rootCmd.PersistentFlags().String("config-dir", "",
		"directory holding the templater registry (default: user config directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"write debug logs to --log-file")
	rootCmd.PersistentFlags().String("log-file", "",
		"debug log location (default: <temp dir>/templater-debug.log)")

	_ = viper.BindPFlag("config_dir", rootCmd.PersistentFlags().Lookup("config-dir"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("config_dir", defaults.ConfigDir)
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("remote.url", defaults.Remote.URL)
	viper.SetDefault("remote.branch", defaults.Remote.Branch)
	viper.SetDefault("remote.depth", defaults.Remote.Depth)
	viper.SetDefault("remote.token", defaults.Remote.Token)
	viper.SetDefault("git.backend", defaults.Git.Backend)

	// TEMPLATER_CONFIG_DIR, TEMPLATER_REMOTE_URL, ...
	viper.SetEnvPrefix("TEMPLATER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	settings := cfgFile
	if settings == "" {
		settings = config.DefaultSettingsFile()
	}
	if settings != "" {
		viper.SetConfigFile(settings)
		if err := viper.ReadInConfig(); err != nil && (cfgFile != "" || !isNotFound(err)) {
			fmt.Fprintf(os.Stderr, "Warning: reading %s: %v\n", settings, err)
		}
	}

	cfg = config.Config{}
	_ = viper.Unmarshal(&cfg)
}

// isNotFound reports whether err means the settings file does not exist.
// A missing default settings file is not an error.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func setup(_ *cobra.Command, _ []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.Debug {
		return nil
	}

	cleanup, err := log.Init(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup
	log.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	log.Info(log.CatConfig, "templater starting", "version", version, "settings", viper.ConfigFileUsed(), "config_dir", cfg.ConfigDir)
	return nil
}

// newRecordStore returns the store for the persisted registry record.
func newRecordStore() registry.Store {
	return config.NewDefaultFileStore(cfg.ConfigDir)
}

func newTemplateStore() *templates.Store {
	return templates.NewStore(newRecordStore())
}

// newCloner returns the clone backend selected by git.backend.
func newCloner() git.Cloner {
	if cfg.Git.Backend == config.BackendExec {
		return newExecutor()
	}
	return git.NewGoGitCloner(
		git.WithBranch(cfg.Remote.Branch),
		git.WithDepth(cfg.Remote.Depth),
		git.WithAuth(cfg.Remote.Token),
	)
}

func newExecutor() *git.RealExecutor {
	return git.NewRealExecutor("",
		git.WithExecDepth(cfg.Remote.Depth),
		git.WithExecBranch(cfg.Remote.Branch),
	)
}

// remoteURL returns the URL argument, falling back to remote.url.
func remoteURL(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Remote.URL
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer func() {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string (called from main with ldflags).
// The version is also written into newly initialized registries.
func SetVersion(v, commit, date string) {
	version = v
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, commit, date)
}
