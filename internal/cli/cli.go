// Package cli implements the schemaviewer command-line interface.
//
// This package provides commands for serving the web application,
// generating ER diagrams from the terminal, authenticating with
// Salesforce, and managing the local describe cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the HTTP server for the web frontend
//   - render: Generate an ER diagram for a set of sObjects
//   - auth: Log in to Salesforce and manage the stored CLI session
//   - versions: List the API versions the connected org supports
//   - cache: Manage the local describe/layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Jaganpro/sf-schema-viewer/pkg/buildinfo"
	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	"github.com/Jaganpro/sf-schema-viewer/pkg/config"
	"github.com/Jaganpro/sf-schema-viewer/pkg/pipeline"
	"github.com/Jaganpro/sf-schema-viewer/pkg/session"
)

// appName is the application name used for directories and display.
const appName = "schemaviewer"

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
		Short:        "Schema Viewer visualizes Salesforce schemas as ER diagrams",
		Long:         `Schema Viewer connects to a Salesforce org, reads sObject describe metadata, and renders entity-relationship diagrams showing lookups and master-detail relationships between objects.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/schemaviewer/config.toml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the configuration from --config or the default path.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newLocalCache builds the file cache CLI commands share, or the null
// cache when caching is disabled.
func newLocalCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Server Backends
// =============================================================================

// newServerCache builds the cache backend the serve command uses, chosen
// by the [cache] section of the config.
func newServerCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "", "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
	case "mongo":
		return cache.NewMongoCache(ctx, cfg.Cache.MongoURI, cfg.Cache.MongoDB)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

// newSessionStores builds the session and state stores for the serve
// command. Redis keeps sessions across restarts and across replicas;
// file suits a single instance; memory suits development.
func newSessionStores(ctx context.Context, cfg *config.Config) (session.Store, session.StateStore, error) {
	switch cfg.Sessions.Backend {
	case "", "memory":
		return session.NewMemoryStore(), session.NewMemoryStateStore(), nil
	case "file":
		store, err := session.NewFileStore(cfg.Sessions.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, session.NewMemoryStateStore(), nil
	case "redis":
		rcfg := session.RedisConfig{Addr: cfg.Sessions.RedisAddr}
		store, err := session.NewRedisStore(ctx, rcfg)
		if err != nil {
			return nil, nil, err
		}
		states, err := session.NewRedisStateStore(ctx, rcfg)
		if err != nil {
			return nil, nil, err
		}
		return store, states, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend: %s", cfg.Sessions.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/schemaviewer/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
