// Package cli implements the graphstage command-line interface.
//
// The CLI is a developer harness around the synchronization pipeline: it
// replays recorded batch files against a headless canvas, inspects the
// wave plan for a batch, and manages the snapshot cache. It is built
// using cobra with charmbracelet/log for structured output.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/graphstage/graphstage/pkg/anim"
	"github.com/graphstage/graphstage/pkg/buildinfo"
	"github.com/graphstage/graphstage/pkg/cache"
	"github.com/graphstage/graphstage/pkg/config"
	"github.com/graphstage/graphstage/pkg/loader"
)

// appName is the application name used for directories and display.
const appName = "graphstage"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Graphstage stages graph batches onto a rendering canvas",
		Long:         `Graphstage maintains a local mirror of a backend-owned graph and stages incoming node/edge batches onto a rendering canvas in causal waves. The CLI replays recorded batches against a headless canvas for inspection and debugging.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML tuning file")

	root.AddCommand(c.replayCommand())
	root.AddCommand(c.wavesCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or returns defaults when unset.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newLoader builds a Loader over the given substrate, wired per config.
func (c *CLI) newLoader(ctx context.Context, cfg config.Config, substrate loader.Substrate, noCache bool, clock anim.Clock) (*loader.Loader, error) {
	snapCache, err := c.openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return loader.New(substrate, loader.Config{
		Cache:  snapCache,
		Logger: c.Logger,
		Theme:  cfg.Theme,
		Tuning: cfg.Tuning,
		Clock:  clock,
	}), nil
}

func (c *CLI) openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == "" && cfg.Cache.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		cfg.Cache.Dir = dir
	}
	return cfg.Cache.OpenCache(ctx)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/graphstage/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
