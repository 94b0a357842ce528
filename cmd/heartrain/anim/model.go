// Package anim drives the rain-of-hearts animation in the terminal.
// The animation is split across files:
//   - model.go: Types, options, model construction (this file)
//   - update.go: Init, Update loop, frame timing
//   - view.go: Rendering functions
//   - run.go: Program lifecycle, theme watching, session recording
package anim

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"go.uber.org/zap"

	"heartrain/cmd/heartrain/ui"
	"heartrain/internal/config"
	"heartrain/internal/rain"
	"heartrain/internal/store"
	"heartrain/internal/theme"
)

// hudHeight is the two reserved rows above the rain: title and message line.
const hudHeight = 2

// Phase is the animation lifecycle stage.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseRain
	PhaseQuitting
)

// Intro pacing.
const (
	introMsgEvery = 600 * time.Millisecond
)

// HUD message pacing: each message holds for msgHold plus a random slice of
// msgJitter.
const (
	msgHold   = 2400 * time.Millisecond
	msgJitter = 1400 * time.Millisecond
	msgDelay  = 800 * time.Millisecond
)

// heartbeat is the intro spinner.
var heartbeat = spinner.Spinner{
	Frames: []string{"♡", "♥", "♥", "♡"},
	FPS:    time.Second / 4,
}

// Options configures one animation run. Zero values fall back to the stock
// behavior: nominal frame rate, built-in theme, fresh seed, endless run.
type Options struct {
	// FPS is the frame rate. Non-positive means rain.NominalFPS; values past
	// config.MaxFPS are capped.
	FPS int

	// Intro is how long the boot screen shows. Non-positive skips it.
	Intro time.Duration

	// Duration stops the animation after this much run time. Zero runs until
	// interrupted.
	Duration time.Duration

	// Seed makes the run reproducible. Zero seeds from the clock.
	Seed int64

	// LargeHearts adds the double-width emoji class to the spawn mix.
	LargeHearts bool

	// SpawnChance and SpawnRamp tune the per-column spawn probability and its
	// climb from zero. Zero values use the field defaults.
	SpawnChance float64
	SpawnRamp   time.Duration

	// Theme overrides the built-in look. ThemePath additionally enables live
	// reload while the animation runs.
	Theme     *theme.Theme
	ThemePath string

	// Store, when set, records a session row after the run ends.
	Store *store.Store

	// Log receives lifecycle events. Nil means no logging.
	Log *zap.Logger
}

// Model is the bubbletea model for the animation.
type Model struct {
	// Simulation
	field *rain.Field
	th    *theme.Theme
	rng   *rand.Rand // presentation jitter; separate stream from the field

	// UI components
	styles  ui.Styles
	spinner spinner.Model

	// Terminal state
	width  int
	height int
	ready  bool

	// Run state
	phase    Phase
	frame    time.Duration // fixed step per frameMsg
	fps      int
	seed     int64
	elapsed  time.Duration // total run time, intro included
	frames   int64
	introFor time.Duration
	deadline time.Duration // 0 means no deadline

	// Intro state
	introElapsed  time.Duration
	introMsgIndex int
	nextIntroMsg  time.Duration

	// HUD message state
	rainElapsed time.Duration
	message     string
	nextMsg     time.Duration

	log *zap.Logger
}

// New builds the animation model. The terminal size arrives later via
// tea.WindowSizeMsg; until then the field is empty and the view shows a
// placeholder.
func New(opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = rain.NominalFPS
	}
	// Cap well below time.Second so the frame interval can never truncate
	// to zero and spin the tick loop.
	if fps > config.MaxFPS {
		fps = config.MaxFPS
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	field := rain.NewField(0, 0, th, rain.Config{
		TargetSpawnChance: opts.SpawnChance,
		RampDuration:      opts.SpawnRamp,
		LargeHearts:       opts.LargeHearts,
	}, rand.New(rand.NewSource(seed)))

	styles := ui.DefaultStyles()
	sp := spinner.New()
	sp.Spinner = heartbeat
	sp.Style = styles.Spinner

	phase := PhaseIntro
	if opts.Intro <= 0 {
		phase = PhaseRain
	}

	return Model{
		field:        field,
		th:           th,
		rng:          rand.New(rand.NewSource(seed + 1)),
		styles:       styles,
		spinner:      sp,
		phase:        phase,
		frame:        time.Second / time.Duration(fps),
		fps:          fps,
		seed:         seed,
		introFor:     opts.Intro,
		deadline:     opts.Duration,
		nextIntroMsg: introMsgEvery,
		log:          log,
	}
}

// Phase returns the current lifecycle stage.
func (m Model) Phase() Phase {
	return m.phase
}

// Seed returns the seed this run was built from.
func (m Model) Seed() int64 {
	return m.seed
}

// Messages for tea updates
type (
	// frameMsg advances the simulation by one fixed step.
	frameMsg struct {
		at time.Time
	}

	// themeReloadedMsg carries a freshly validated theme from the watcher.
	themeReloadedMsg struct {
		theme *theme.Theme
	}
)
