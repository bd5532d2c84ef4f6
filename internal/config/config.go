// Package config loads projex settings from .projex.yaml and CLI flags.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile   = ".projex.yaml"
	DefaultDestDir      = ".github"
	DefaultStartupDelay = 2 * time.Second
	DefaultLogLevel     = "info"
)

// Config holds projex configuration.
//
// Configuration is assembled from three sources in priority order:
//  1. CLI flags (highest priority)
//  2. Config file (.projex.yaml)
//  3. Defaults (lowest priority)
type Config struct {
	// Workspace is the project directory synchronized into. Defaults to the
	// current directory.
	Workspace string `yaml:"workspace"`

	// ContentRoot is the bundled content directory holding instructions/ and
	// prompts/. Defaults to $XDG_DATA_HOME/projex.
	ContentRoot string `yaml:"content_root"`

	// DestDir is the destination root relative to Workspace.
	DestDir string `yaml:"dest_dir"`

	// AutoSync controls whether startup synchronization runs. Nil means the
	// default (enabled).
	AutoSync *bool `yaml:"auto_sync"`

	// StartupDelay is how long watch mode waits before the first sync so it
	// does not compete with the host's own startup.
	StartupDelay time.Duration `yaml:"startup_delay"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Ignore lists extra glob patterns never copied into the workspace.
	Ignore []string `yaml:"ignore"`

	// Catalog is a YAML file overriding category titles, keywords and
	// descriptions. Defaults to <content_root>/instructions/catalog.yaml.
	Catalog string `yaml:"catalog"`

	// Logger is the structured logger. Not configurable via file/flags.
	Logger *slog.Logger `yaml:"-"`
}

// AutoSyncEnabled reports the effective auto-sync setting.
func (c *Config) AutoSyncEnabled() bool {
	return c.AutoSync == nil || *c.AutoSync
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Workspace == "" {
		if wd, err := os.Getwd(); err == nil {
			c.Workspace = wd
		}
	}
	if c.ContentRoot == "" {
		if root, err := DefaultContentRoot(); err == nil {
			c.ContentRoot = root
		}
	}
	if c.DestDir == "" {
		c.DestDir = DefaultDestDir
	}
	if c.AutoSync == nil {
		enabled := true
		c.AutoSync = &enabled
	}
	if c.StartupDelay == 0 {
		c.StartupDelay = DefaultStartupDelay
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	// Catalog intentionally has no default here: the workspace service looks
	// for catalog.yaml next to the instructions when it is empty.
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Validate checks that configuration values are valid and resolves paths to
// absolute form. Call after ApplyDefaults.
func (c *Config) Validate() error {
	if c.ContentRoot == "" {
		return fmt.Errorf("content root is required (use --content or set content_root in config file)")
	}
	if filepath.IsAbs(c.DestDir) {
		return fmt.Errorf("dest_dir must be relative to the workspace, got %q", c.DestDir)
	}
	if strings.HasPrefix(filepath.Clean(c.DestDir), "..") {
		return fmt.Errorf("dest_dir must stay inside the workspace, got %q", c.DestDir)
	}
	if c.StartupDelay < 0 {
		return fmt.Errorf("startup_delay must not be negative, got %v", c.StartupDelay)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for _, p := range c.Ignore {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("ignore patterns must not be empty")
		}
	}

	for _, p := range []*string{&c.Workspace, &c.ContentRoot, &c.Catalog} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolving %q: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// DefaultContentRoot returns $XDG_DATA_HOME/projex, falling back to
// ~/.local/share/projex. Relative XDG values are ignored as XDG requires.
func DefaultContentRoot() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" || !filepath.IsAbs(dataDir) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "projex"), nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level %q is not one of debug, info, warn, error", name)
	}
}

// LoadConfigFile reads a YAML config file and merges it into the config.
// Only zero-valued fields are overwritten, so CLI flags take precedence.
// Returns nil if the file does not exist.
func LoadConfigFile(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	mergeConfig(&file, into)
	return nil
}

// mergeConfig copies non-zero fields from src into dst, but only where
// dst has the zero value.
func mergeConfig(src, dst *Config) {
	if dst.Workspace == "" {
		dst.Workspace = src.Workspace
	}
	if dst.ContentRoot == "" {
		dst.ContentRoot = src.ContentRoot
	}
	if dst.DestDir == "" {
		dst.DestDir = src.DestDir
	}
	if dst.AutoSync == nil {
		dst.AutoSync = src.AutoSync
	}
	if dst.StartupDelay == 0 {
		dst.StartupDelay = src.StartupDelay
	}
	if dst.LogLevel == "" {
		dst.LogLevel = src.LogLevel
	}
	// Ignore patterns accumulate: flags add to the file, never replace it.
	dst.Ignore = append(append([]string(nil), src.Ignore...), dst.Ignore...)
	if dst.Catalog == "" {
		dst.Catalog = src.Catalog
	}
}

// SaveAutoSync sets auto_sync in the config file at path, creating the file
// if needed. Other keys, comments and ordering are preserved.
func SaveAutoSync(path string, enabled bool) error {
	var doc yaml.Node
	data, err := os.ReadFile(path)
	switch {
	case err == nil && len(bytes.TrimSpace(data)) > 0:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config file %s: top level must be a mapping", path)
	}

	root := doc.Content[0]
	value := fmt.Sprintf("%t", enabled)
	found := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "auto_sync" {
			root.Content[i+1].Kind = yaml.ScalarNode
			root.Content[i+1].Tag = "!!bool"
			root.Content[i+1].Value = value
			found = true
			break
		}
	}
	if !found {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "auto_sync"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value},
		)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding config file %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
