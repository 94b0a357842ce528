// Package ui provides the visual styling for the heartrain terminal
// interface, with light/dark mode support and cached glyph styles for the
// rain renderer.
package ui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"heartrain/internal/sprite"
)

var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#fdf2f7") // blush white
	LightForeground = lipgloss.Color("#3d2032") // plum
	LightPrimary    = lipgloss.Color("#d81b7a") // deep pink
	LightAccent     = lipgloss.Color("#00838f") // teal
	LightMuted      = lipgloss.Color("#a58a99")
	LightBorder     = lipgloss.Color("#e8cdd9")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#1b1016") // near-black plum
	DarkForeground = lipgloss.Color("#f5e6ee")
	DarkPrimary    = lipgloss.Color("#ff6eb4") // hot pink
	DarkAccent     = lipgloss.Color("#4dd0e1") // bright cyan
	DarkMuted      = lipgloss.Color("#7d6370")
	DarkBorder     = lipgloss.Color("#4a2f3d")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935") // Red
	Success     = lipgloss.Color("#66bb6a") // Green
	Warning     = lipgloss.Color("#FFC107") // Yellow

	// MessageColor is the ANSI index for the rotating status line, bright
	// magenta. The rain glyphs carry their own palette colors from the theme
	// file.
	MessageColor = lipgloss.Color("13")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// Check for common dark mode indicators
	colorTerm := os.Getenv("COLORFGBG")
	if colorTerm != "" {
		// Format is usually "foreground;background"
		// If background is dark (0-8), use dark theme.
		// If background is light (7-15), use light theme.
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			bgStr := parts[1]
			// Standard ANSI colors: 0-7 are widely used for dark backgrounds
			if bgIdx, err := strconv.Atoi(bgStr); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	// Check for explicit dark mode preference
	if os.Getenv("HEARTRAIN_DARK_MODE") == "1" {
		return DarkTheme()
	}

	// Default to light mode
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Rain HUD
	Title   lipgloss.Style
	Hint    lipgloss.Style
	Message lipgloss.Style

	// Intro screen
	Logo     lipgloss.Style
	BootText lipgloss.Style

	// Text
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Components
	Farewell lipgloss.Style
	Spinner  lipgloss.Style
	Divider  lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		// Rain HUD styles
		Title: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Hint: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Message: lipgloss.NewStyle().
			Foreground(MessageColor).
			Bold(true),

		// Intro styles
		Logo: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		BootText: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		// Text styles
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		// Status styles
		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		// Component styles
		Farewell: lipgloss.NewStyle().
			Foreground(Success),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// DefaultStyles returns styles with the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// Logo returns the heart logo rendered in the primary color.
func Logo(s Styles) string {
	rows := sprite.Heart(sprite.SizeMedium, sprite.StyleFilled)
	return s.Logo.Render(strings.Join(rows, "\n"))
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}

// GlyphPhase selects the twinkle treatment for one rain glyph.
type GlyphPhase int

const (
	GlyphNormal GlyphPhase = iota
	GlyphBright
	GlyphFaint
)

type glyphKey struct {
	color int
	phase GlyphPhase
}

var (
	glyphMu    sync.Mutex
	glyphCache = make(map[glyphKey]lipgloss.Style)
)

// GlyphStyle returns the foreground style for a rain glyph with the given
// 256-color palette index. The palette is small, so styles are cached for
// the life of the process.
func GlyphStyle(color int, phase GlyphPhase) lipgloss.Style {
	key := glyphKey{color: color, phase: phase}

	glyphMu.Lock()
	defer glyphMu.Unlock()
	if st, ok := glyphCache[key]; ok {
		return st
	}

	st := lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(color)))
	switch phase {
	case GlyphBright:
		st = st.Bold(true)
	case GlyphFaint:
		st = st.Faint(true)
	}
	glyphCache[key] = st
	return st
}
