package rain

import (
	"math/rand"
	"time"

	"github.com/mattn/go-runewidth"

	"heartrain/internal/theme"
)

// NominalFPS is the frame rate the themed speed constants are tuned for.
// Step scales motion by real elapsed time, so other frame rates fall at the
// same visual speed.
const NominalFPS = 14

// Default spawn tuning, matching a calm density for single-cell hearts.
const (
	DefaultSpawnChance  = 0.03
	DefaultRampDuration = 10 * time.Second
)

// Config tunes spawning. Zero values fall back to the defaults.
type Config struct {
	TargetSpawnChance float64       // per column per frame once ramped
	RampDuration      time.Duration // time to climb from zero to the target
	LargeHearts       bool          // include the large emoji class
}

// FieldStats is a snapshot of simulation counters.
type FieldStats struct {
	Live    int
	Spawned int64
	Peak    int
	Elapsed time.Duration
}

// Field simulates hearts falling through a w x h cell area. All methods must
// be called from a single goroutine; the bubbletea update loop satisfies
// that.
type Field struct {
	w, h    int
	cfg     Config
	th      *theme.Theme
	rng     *rand.Rand
	hearts  []*Heart
	elapsed float64
	spawned int64
	peak    int
}

// NewField creates a field of the given dimensions. A nil theme uses the
// built-in default; a nil rng seeds from the clock.
func NewField(w, h int, th *theme.Theme, cfg Config, rng *rand.Rand) *Field {
	if th == nil {
		th = theme.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.TargetSpawnChance <= 0 {
		cfg.TargetSpawnChance = DefaultSpawnChance
	}
	if cfg.RampDuration <= 0 {
		cfg.RampDuration = DefaultRampDuration
	}

	return &Field{
		w:   w,
		h:   h,
		cfg: cfg,
		th:  th,
		rng: rng,
	}
}

// Dimensions returns the current field size in cells.
func (f *Field) Dimensions() (w, h int) {
	return f.w, f.h
}

// Resize adjusts the field and drops hearts that no longer fit.
func (f *Field) Resize(w, h int) {
	f.w = w
	f.h = h

	kept := f.hearts[:0]
	for _, hr := range f.hearts {
		if hr.X-hr.W/2 >= w || hr.Y >= float64(h) {
			continue
		}
		kept = append(kept, hr)
	}
	f.hearts = kept
}

// SetTheme swaps the glyph pools and palette used for future spawns. Hearts
// already falling keep their glyph and color.
func (f *Field) SetTheme(th *theme.Theme) {
	if th == nil {
		return
	}
	f.th = th
}

// Step advances the simulation by dt: hearts fall, twinkle phases re-roll,
// off-screen hearts are culled, and new hearts spawn along the top edge.
func (f *Field) Step(dt time.Duration) {
	sec := dt.Seconds()
	if sec < 0 {
		sec = 0
	}
	f.elapsed += sec
	frames := sec * NominalFPS

	for _, hr := range f.hearts {
		hr.Y += hr.Speed * frames
		if f.elapsed >= hr.twinkleNext {
			hr.Twinkle = TwinklePhase(f.rng.Intn(3))
			hr.twinkleNext = f.elapsed + 0.15 + f.rng.Float64()*0.45
		}
	}

	kept := f.hearts[:0]
	for _, hr := range f.hearts {
		if hr.Y < float64(f.h) {
			kept = append(kept, hr)
		}
	}
	f.hearts = kept

	chance := f.SpawnChance()
	for col := 0; col < f.w; col++ {
		if f.rng.Float64() < chance {
			f.trySpawn(col)
		}
	}

	if len(f.hearts) > f.peak {
		f.peak = len(f.hearts)
	}
}

// SpawnChance returns the current per-column spawn probability. It climbs
// linearly from zero to the target over the ramp window, then holds.
func (f *Field) SpawnChance() float64 {
	target := f.cfg.TargetSpawnChance
	ramp := f.cfg.RampDuration.Seconds()
	if ramp <= 0 {
		return target
	}
	chance := target * (f.elapsed / ramp)
	if chance > target {
		chance = target
	}
	return chance
}

// Hearts returns a snapshot slice for rendering. The hearts themselves are
// shared; callers must not mutate them.
func (f *Field) Hearts() []*Heart {
	return append([]*Heart(nil), f.hearts...)
}

// Stats returns a snapshot of the simulation counters.
func (f *Field) Stats() FieldStats {
	return FieldStats{
		Live:    len(f.hearts),
		Spawned: f.spawned,
		Peak:    f.peak,
		Elapsed: time.Duration(f.elapsed * float64(time.Second)),
	}
}

// trySpawn rolls a new heart at the top of the given column and keeps it only
// if its bounding box clears every live heart.
func (f *Field) trySpawn(col int) {
	size := f.pickSize()
	style := f.pickStyle()
	glyph := f.pickGlyph(size, style)
	if glyph == "" {
		return
	}

	hr := &Heart{
		X:           col,
		Y:           0,
		Color:       f.th.Palette[f.rng.Intn(len(f.th.Palette))],
		Speed:       f.pickSpeed(size),
		Size:        size,
		Style:       style,
		Sprite:      []string{glyph},
		W:           runewidth.StringWidth(glyph),
		H:           1,
		Twinkle:     TwinklePhase(f.rng.Intn(3)),
		twinkleNext: f.elapsed + 0.1 + f.rng.Float64()*0.6,
	}

	for _, existing := range f.hearts {
		if overlap(hr, existing) {
			return
		}
	}

	f.hearts = append(f.hearts, hr)
	f.spawned++
}

func (f *Field) pickSize() Size {
	smallW := f.th.Weights.Small
	medW := f.th.Weights.Medium
	largeW := 0
	if f.cfg.LargeHearts {
		largeW = f.th.Weights.Large
	}

	total := smallW + medW + largeW
	if total <= 0 {
		return SizeSmall
	}
	n := f.rng.Intn(total)
	switch {
	case n < smallW:
		return SizeSmall
	case n < smallW+medW:
		return SizeMedium
	default:
		return SizeLarge
	}
}

func (f *Field) pickStyle() Style {
	total := f.th.Weights.Filled + f.th.Weights.Outline
	if total <= 0 {
		return StyleFilled
	}
	if f.rng.Intn(total) < f.th.Weights.Filled {
		return StyleFilled
	}
	return StyleOutline
}

// pickGlyph chooses from the pool for the size and style. Small outline
// hearts use the dainty pool; everything else single-cell uses the filled
// pool. Empty pools fall back to their counterpart.
func (f *Field) pickGlyph(size Size, style Style) string {
	var pool []string
	switch {
	case size == SizeLarge:
		pool = f.th.Glyphs.Large
	case size == SizeSmall && style == StyleOutline:
		pool = f.th.Glyphs.Outline
	default:
		pool = f.th.Glyphs.Filled
	}

	if len(pool) == 0 {
		if len(f.th.Glyphs.Filled) > 0 {
			pool = f.th.Glyphs.Filled
		} else if len(f.th.Glyphs.Outline) > 0 {
			pool = f.th.Glyphs.Outline
		} else {
			return ""
		}
	}
	return pool[f.rng.Intn(len(pool))]
}

func (f *Field) pickSpeed(size Size) float64 {
	var r theme.Range
	switch size {
	case SizeSmall:
		r = f.th.Speeds.Small
	case SizeMedium:
		r = f.th.Speeds.Medium
	default:
		r = f.th.Speeds.Large
	}
	return r.Min + f.rng.Float64()*(r.Max-r.Min)
}
