package anim

// Test helpers for driving the animation model without a terminal. Models
// are built through NewTestModel with functional options, then advanced by
// feeding messages straight into Update.

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"heartrain/internal/theme"
)

type testModelConfig struct {
	opts   Options
	width  int
	height int
}

// TestModelOption configures NewTestModel.
type TestModelOption func(*testModelConfig)

// WithIntro runs the boot screen for d before the rain starts.
func WithIntro(d time.Duration) TestModelOption {
	return func(c *testModelConfig) { c.opts.Intro = d }
}

// WithDuration stops the run after d.
func WithDuration(d time.Duration) TestModelOption {
	return func(c *testModelConfig) { c.opts.Duration = d }
}

// WithSeed fixes both random streams.
func WithSeed(seed int64) TestModelOption {
	return func(c *testModelConfig) { c.opts.Seed = seed }
}

// WithTheme overrides the built-in theme.
func WithTheme(th *theme.Theme) TestModelOption {
	return func(c *testModelConfig) { c.opts.Theme = th }
}

// WithFPS overrides the frame rate.
func WithFPS(fps int) TestModelOption {
	return func(c *testModelConfig) { c.opts.FPS = fps }
}

// WithSize sets the initial terminal size. Zero width leaves the model in
// its not-ready state, as if tea.WindowSizeMsg never arrived.
func WithSize(w, h int) TestModelOption {
	return func(c *testModelConfig) {
		c.width = w
		c.height = h
	}
}

// NewTestModel builds a model with a fixed seed and an 80x24 terminal
// already applied, unless options say otherwise.
func NewTestModel(t *testing.T, opts ...TestModelOption) Model {
	t.Helper()

	cfg := testModelConfig{
		opts:   Options{Seed: 1},
		width:  80,
		height: 24,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := New(cfg.opts)
	if cfg.width > 0 && cfg.height > 0 {
		m = applyMsg(t, m, tea.WindowSizeMsg{Width: cfg.width, Height: cfg.height})
	}
	return m
}

// applyMsg runs one Update and returns the typed model.
func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want anim.Model", next)
	}
	return nm
}

// applyMsgCmd runs one Update and returns both the typed model and the
// command it produced.
func applyMsgCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want anim.Model", next)
	}
	return nm, cmd
}

// stepFrames advances the model by n fixed simulation frames.
func stepFrames(t *testing.T, m Model, n int) Model {
	t.Helper()

	for i := 0; i < n; i++ {
		m = applyMsg(t, m, frameMsg{at: time.Now()})
	}
	return m
}

// framesFor converts a wall duration into whole frames at the model's rate.
func framesFor(m Model, d time.Duration) int {
	return int(d / m.frame)
}

// isQuit reports whether cmd resolves to tea.QuitMsg.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}
