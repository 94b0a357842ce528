// Package rain is the pure simulation behind the falling-heart animation.
// A Field advances spawned hearts through deterministic steps; it performs no
// I/O and takes its randomness from an injectable source, so runs are
// reproducible from a seed.
package rain

// Size classes a heart by footprint. Small and medium hearts are single
// cells; large hearts are double-cell emoji.
type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

// Style selects between solid and dainty glyph pools.
type Style int

const (
	StyleFilled Style = iota
	StyleOutline
)

// TwinklePhase is the current brightness of a heart. Phases re-roll on a
// random cadence to give the rain its shimmer.
type TwinklePhase int

const (
	TwinkleNormal TwinklePhase = iota
	TwinkleBright
	TwinkleFaint
)

// Heart is one falling glyph block in the field.
type Heart struct {
	X       int     // column of the horizontal center
	Y       float64 // top row, fractional while falling
	Color   int     // ANSI-256 palette code
	Speed   float64 // rows per frame at the nominal frame rate
	Size    Size
	Style   Style
	Sprite  []string
	W, H    int
	Twinkle TwinklePhase

	twinkleNext float64 // field-elapsed seconds when the phase re-rolls
}

// overlap reports whether two hearts' bounding boxes touch.
func overlap(a, b *Heart) bool {
	aLeft := a.X - a.W/2
	aRight := aLeft + a.W
	aTop := int(a.Y)
	aBottom := aTop + a.H

	bLeft := b.X - b.W/2
	bRight := bLeft + b.W
	bTop := int(b.Y)
	bBottom := bTop + b.H

	return !(aRight < bLeft || aLeft > bRight || aBottom < bTop || aTop > bBottom)
}
