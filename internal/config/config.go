// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/popover/internal/debounce"
	"github.com/jmylchreest/popover/internal/display"
	"github.com/jmylchreest/popover/internal/pointer"
)

// Default configuration values.
const (
	DefaultScene      = "default"
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Config represents the popover configuration.
type Config struct {
	Hover   HoverConfig   `toml:"hover"`
	Popover PopoverConfig `toml:"popover"`
	Scene   SceneConfig   `toml:"scene"`
	TUI     TUIConfig     `toml:"tui"`
	Journal JournalConfig `toml:"journal"`
}

// HoverConfig controls pointer tracking.
type HoverConfig struct {
	Wait    Duration `toml:"wait"`     // Quiet period before a check, e.g. "250ms"
	MaxWait Duration `toml:"max_wait"` // Longest a burst can defer a check
	Pointer string   `toml:"pointer"`  // auto, fine, coarse, none
}

// PopoverConfig holds presentation metrics.
type PopoverConfig struct {
	Placement      string  `toml:"placement"` // top, bottom
	Spacing        float64 `toml:"spacing"`
	HitProbeHeight float64 `toml:"hit_probe_height"`
	HitProbeSlack  float64 `toml:"hit_probe_slack"`
	PushRight      bool    `toml:"push_right"`
	PanelWidth     float64 `toml:"panel_width"`
	PanelHeight    float64 `toml:"panel_height"`
}

// SceneConfig selects the scene used by the demo and the CLI.
type SceneConfig struct {
	Name string `toml:"name"` // Scene name without .xml extension, or a path
	Dir  string `toml:"dir"`  // User scene directory (empty = default)
}

// TUIConfig holds terminal host settings.
type TUIConfig struct {
	CellWidth  int `toml:"cell_width"`  // Pixels per terminal column
	CellHeight int `toml:"cell_height"` // Pixels per terminal row
}

// JournalConfig controls the session journal.
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // JSONL file (empty = default)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Hover: HoverConfig{
			Wait:    Duration(debounce.DefaultWait),
			MaxWait: Duration(debounce.DefaultMaxWait),
			Pointer: pointer.ModeAuto,
		},
		Popover: PopoverConfig{
			Placement:      string(display.PlacementBottom),
			Spacing:        display.DefaultSpacing,
			HitProbeHeight: display.DefaultHitProbeHeight,
			HitProbeSlack:  display.DefaultHitProbeSlack,
			PanelWidth:     160,
			PanelHeight:    96,
		},
		Scene: SceneConfig{
			Name: DefaultScene,
		},
		TUI: TUIConfig{
			CellWidth:  DefaultCellWidth,
			CellHeight: DefaultCellHeight,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	dir := configHome()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "popover", "config.toml")
}

// SceneDir returns the user scene directory, honouring the configured
// override.
func (c *Config) SceneDir() string {
	if c.Scene.Dir != "" {
		return c.Scene.Dir
	}
	dir := configHome()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "popover", "scenes")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "popover")
}

// JournalPath returns the session journal path, honouring the configured
// override.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return filepath.Join(DataPath(), "sessions.jsonl")
}

func configHome() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return configHome
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Hover.Wait.Duration() <= 0 {
		return fmt.Errorf("hover.wait must be positive, got %s", c.Hover.Wait.Duration())
	}
	if c.Hover.MaxWait.Duration() < c.Hover.Wait.Duration() {
		return fmt.Errorf("hover.max_wait (%s) must not be shorter than hover.wait (%s)",
			c.Hover.MaxWait.Duration(), c.Hover.Wait.Duration())
	}
	if _, err := pointer.ParseMode(c.Hover.Pointer); err != nil {
		return err
	}
	if _, err := display.ParsePlacement(c.Popover.Placement); err != nil {
		return err
	}
	if c.Popover.Spacing < 0 || c.Popover.HitProbeHeight < 0 || c.Popover.HitProbeSlack < 0 {
		return errors.New("popover metrics must not be negative")
	}
	if c.TUI.CellWidth < 1 || c.TUI.CellHeight < 1 {
		return fmt.Errorf("tui cell size must be at least 1x1, got %dx%d", c.TUI.CellWidth, c.TUI.CellHeight)
	}
	return nil
}

// Placement returns the configured placement, defaulting to bottom.
func (c *Config) Placement() display.Placement {
	p, err := display.ParsePlacement(c.Popover.Placement)
	if err != nil {
		return display.PlacementBottom
	}
	return p
}

// DisplayOptions converts the popover section into display metrics.
func (c *Config) DisplayOptions() display.Options {
	opts := display.DefaultOptions()
	opts.Spacing = c.Popover.Spacing
	opts.HitProbeHeight = c.Popover.HitProbeHeight
	opts.HitProbeSlack = c.Popover.HitProbeSlack
	opts.PushRight = c.Popover.PushRight
	return opts
}

// Timings returns the hover debounce wait and max wait.
func (c *Config) Timings() (wait, maxWait time.Duration) {
	return c.Hover.Wait.Duration(), c.Hover.MaxWait.Duration()
}
