// Package cli implements the mvntree command-line interface.
//
// # Commands
//
//   - tree: resolve a pom.xml against a Maven repository and print the
//     dependency tree as text, JSON, DOT or SVG
//   - match: show how a pattern matches artifact coordinates in strict and
//     lenient mode
//   - cache: inspect and clear the document cache
//   - completion: generate shell completion scripts
//
// Settings come from mvntree.toml (see package config) and are overridden
// by flags. All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mvntree/pkg/cache"
	"github.com/matzehuels/mvntree/pkg/config"
)

const appName = "mvntree"

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
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the file named by --config, or mvntree.toml in the
// working directory when present.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

// openCache opens the configured backend, or a NullCache when caching is
// disabled.
func openCache(cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(cfg.CacheOptions())
}
