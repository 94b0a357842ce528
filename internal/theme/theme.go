// Package theme holds the visual vocabulary of the rain: glyph pools, the
// pink palette, rotating status messages, and motion parameters. Themes are
// plain YAML files so the animation can be restyled without rebuilding.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTheme marks a theme that failed validation.
var ErrInvalidTheme = errors.New("invalid theme")

// Theme describes everything the animation draws with.
type Theme struct {
	// Title is the first HUD line shown above the rain.
	Title string `yaml:"title,omitempty"`

	// Farewell is printed when the animation exits.
	Farewell string `yaml:"farewell,omitempty"`

	// Glyphs are the heart pools by style and size class.
	Glyphs GlyphPools `yaml:"glyphs,omitempty"`

	// Palette holds ANSI-256 color codes used for hearts.
	Palette []int `yaml:"palette,omitempty"`

	// Messages rotate on the HUD and during the intro.
	Messages []string `yaml:"messages,omitempty"`

	// Weights bias size and style selection at spawn time.
	Weights SpawnWeights `yaml:"weights,omitempty"`

	// Speeds are fall-rate ranges in rows per frame at the nominal frame rate.
	Speeds SpeedRanges `yaml:"speeds,omitempty"`
}

// GlyphPools groups the heart glyphs a theme draws from.
type GlyphPools struct {
	Outline []string `yaml:"outline,omitempty"` // dainty single-cell hearts
	Filled  []string `yaml:"filled,omitempty"`  // solid single-cell hearts
	Large   []string `yaml:"large,omitempty"`   // emoji hearts, double-cell
}

// SpawnWeights bias the spawn dice. Zero values fall back to defaults.
type SpawnWeights struct {
	Small   int `yaml:"small,omitempty"`
	Medium  int `yaml:"medium,omitempty"`
	Large   int `yaml:"large,omitempty"`
	Filled  int `yaml:"filled,omitempty"`
	Outline int `yaml:"outline,omitempty"`
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SpeedRanges hold per-size fall speeds.
type SpeedRanges struct {
	Small  Range `yaml:"small,omitempty"`
	Medium Range `yaml:"medium,omitempty"`
	Large  Range `yaml:"large,omitempty"`
}

// Default returns the built-in pink theme.
func Default() *Theme {
	return &Theme{
		Title:    "Relationship Module: Rain of Hearts",
		Farewell: "Exiting love loop... See you next heartbeat! 💚",
		Glyphs: GlyphPools{
			Outline: []string{"♡", "❥", "ღ"},
			Filled:  []string{"♥"},
			Large:   []string{"💖", "💗", "💕", "💞", "💓", "💝", "💟"},
		},
		Palette: []int{198, 199, 200, 205, 206, 213, 219},
		Messages: []string{
			"Compiling feelings...",
			"Deploying emotions...",
			"FlirtingAPI initializing...",
			"Authenticating chemistry...",
			"Encrypting heartbeats...",
			"Loading love language pack...",
			"Spinning up butterflies...",
			"Warming up smile engine...",
			"Negotiating date protocol...",
		},
		Weights: SpawnWeights{
			Small:   6,
			Medium:  4,
			Large:   1,
			Filled:  6,
			Outline: 4,
		},
		Speeds: SpeedRanges{
			Small:  Range{Min: 0.06, Max: 0.14},
			Medium: Range{Min: 0.12, Max: 0.28},
			Large:  Range{Min: 0.05, Max: 0.10},
		},
	}
}

// Load reads a theme file, fills omitted fields from the defaults, and
// validates the result.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme: %w", err)
	}

	th := &Theme{}
	if err := yaml.Unmarshal(data, th); err != nil {
		return nil, fmt.Errorf("failed to parse theme: %w", err)
	}

	th.applyDefaults()
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return th, nil
}

// Save writes the theme as YAML, creating parent directories as needed.
func (t *Theme) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create theme directory: %w", err)
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	return nil
}

// Validate checks the theme for values the animation cannot work with.
func (t *Theme) Validate() error {
	if len(t.Glyphs.Outline) == 0 && len(t.Glyphs.Filled) == 0 {
		return fmt.Errorf("%w: no heart glyphs", ErrInvalidTheme)
	}
	if len(t.Palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidTheme)
	}
	for _, code := range t.Palette {
		if code < 0 || code > 255 {
			return fmt.Errorf("%w: palette code %d outside 0-255", ErrInvalidTheme, code)
		}
	}
	if len(t.Messages) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidTheme)
	}
	if t.Weights.Small <= 0 && t.Weights.Medium <= 0 {
		return fmt.Errorf("%w: small and medium spawn weights are both zero", ErrInvalidTheme)
	}
	if t.Weights.Small < 0 || t.Weights.Medium < 0 || t.Weights.Large < 0 ||
		t.Weights.Filled < 0 || t.Weights.Outline < 0 {
		return fmt.Errorf("%w: negative spawn weight", ErrInvalidTheme)
	}
	for _, r := range []struct {
		name string
		r    Range
	}{
		{"small", t.Speeds.Small},
		{"medium", t.Speeds.Medium},
		{"large", t.Speeds.Large},
	} {
		if r.r.Min <= 0 || r.r.Max < r.r.Min {
			return fmt.Errorf("%w: %s speed range %v-%v", ErrInvalidTheme, r.name, r.r.Min, r.r.Max)
		}
	}
	return nil
}

// applyDefaults fills zero-valued fields from the built-in theme so partial
// theme files only need to override what they change.
func (t *Theme) applyDefaults() {
	def := Default()
	if t.Title == "" {
		t.Title = def.Title
	}
	if t.Farewell == "" {
		t.Farewell = def.Farewell
	}
	if len(t.Glyphs.Outline) == 0 {
		t.Glyphs.Outline = def.Glyphs.Outline
	}
	if len(t.Glyphs.Filled) == 0 {
		t.Glyphs.Filled = def.Glyphs.Filled
	}
	if len(t.Glyphs.Large) == 0 {
		t.Glyphs.Large = def.Glyphs.Large
	}
	if len(t.Palette) == 0 {
		t.Palette = def.Palette
	}
	if len(t.Messages) == 0 {
		t.Messages = def.Messages
	}
	if t.Weights.Small == 0 && t.Weights.Medium == 0 && t.Weights.Large == 0 {
		t.Weights.Small = def.Weights.Small
		t.Weights.Medium = def.Weights.Medium
		t.Weights.Large = def.Weights.Large
	}
	if t.Weights.Filled == 0 && t.Weights.Outline == 0 {
		t.Weights.Filled = def.Weights.Filled
		t.Weights.Outline = def.Weights.Outline
	}
	if t.Speeds.Small == (Range{}) {
		t.Speeds.Small = def.Speeds.Small
	}
	if t.Speeds.Medium == (Range{}) {
		t.Speeds.Medium = def.Speeds.Medium
	}
	if t.Speeds.Large == (Range{}) {
		t.Speeds.Large = def.Speeds.Large
	}
}
