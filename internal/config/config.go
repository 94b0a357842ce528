// Package config holds user preferences for heartrain. Configuration lives
// in a single JSON file under the XDG config directory; every accessor
// applies defaults for zero values so a missing or partial file always
// yields a usable setup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName names the per-application XDG subdirectories.
const AppName = "heartrain"

// Defaults matching the animation's tuned feel.
const (
	DefaultFPS              = 14
	DefaultIntroSeconds     = 7.0
	DefaultSpawnRampSeconds = 10.0
	DefaultMaxSpawnChance   = 0.03

	// MaxFPS caps user-configured frame rates at something terminals can
	// actually repaint.
	MaxFPS = 60
)

// UserConfig is the on-disk configuration. Omitted fields fall back to
// defaults through the Get* accessors.
type UserConfig struct {
	// FPS is the animation frame rate.
	FPS int `json:"fps,omitempty"`

	// IntroSeconds is the boot-screen duration before the rain starts.
	IntroSeconds float64 `json:"intro_seconds,omitempty"`

	// SpawnRampSeconds is how long the spawn chance climbs to its maximum.
	SpawnRampSeconds float64 `json:"spawn_ramp_seconds,omitempty"`

	// MaxSpawnChance is the per-column spawn probability after the ramp.
	MaxSpawnChance float64 `json:"max_spawn_chance,omitempty"`

	// LargeHearts enables the double-cell emoji heart class.
	LargeHearts bool `json:"large_hearts,omitempty"`

	// ThemeFile overrides the default theme location.
	ThemeFile string `json:"theme_file,omitempty"`

	// LogToFile enables the session log under the XDG state directory.
	LogToFile bool `json:"log_to_file,omitempty"`

	// DatabasePath overrides where session statistics are stored.
	DatabasePath string `json:"database_path,omitempty"`
}

// ClampFPS brings a frame rate into the usable range: non-positive values
// fall back to the default, values past MaxFPS are capped. Flag and config
// values go through the same clamp.
func ClampFPS(fps int) int {
	if fps <= 0 {
		return DefaultFPS
	}
	if fps > MaxFPS {
		return MaxFPS
	}
	return fps
}

// GetFPS returns the frame rate with defaults and caps applied.
func (c *UserConfig) GetFPS() int {
	return ClampFPS(c.FPS)
}

// GetIntroDuration returns the intro length with the default applied.
func (c *UserConfig) GetIntroDuration() time.Duration {
	secs := c.IntroSeconds
	if secs <= 0 {
		secs = DefaultIntroSeconds
	}
	return time.Duration(secs * float64(time.Second))
}

// GetSpawnRamp returns the spawn ramp window with the default applied.
func (c *UserConfig) GetSpawnRamp() time.Duration {
	secs := c.SpawnRampSeconds
	if secs <= 0 {
		secs = DefaultSpawnRampSeconds
	}
	return time.Duration(secs * float64(time.Second))
}

// GetMaxSpawnChance returns the ramped spawn probability, clamped to [0,1].
func (c *UserConfig) GetMaxSpawnChance() float64 {
	chance := c.MaxSpawnChance
	if chance <= 0 {
		chance = DefaultMaxSpawnChance
	}
	if chance > 1 {
		chance = 1
	}
	return chance
}

// GetThemeFile returns the configured theme path, or the default location
// under the XDG config directory.
func (c *UserConfig) GetThemeFile() string {
	if c.ThemeFile != "" {
		return c.ThemeFile
	}
	return DefaultThemePath()
}

// GetDatabasePath returns the session database path, or the default location
// under the XDG data directory.
func (c *UserConfig) GetDatabasePath() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(xdg.DataHome, AppName, "sessions.db")
}

// DefaultConfigPath returns the canonical config file location.
// On Linux: ~/.config/heartrain/config.json
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.json")
}

// DefaultThemePath returns the canonical theme file location.
// On Linux: ~/.config/heartrain/theme.yaml
func DefaultThemePath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "theme.yaml")
}

// LogDir returns the directory for session logs.
// On Linux: ~/.local/state/heartrain/logs
func LogDir() string {
	return filepath.Join(xdg.StateHome, AppName, "logs")
}

// Load reads configuration from the given path. A missing file is not an
// error; it yields an empty config whose accessors return defaults.
func Load(path string) (*UserConfig, error) {
	cfg := &UserConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from the canonical location.
func LoadDefault() (*UserConfig, error) {
	return Load(DefaultConfigPath())
}

// Save writes the configuration as indented JSON, creating parent
// directories as needed.
func (c *UserConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
