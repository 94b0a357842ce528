// Package sprite rasterizes heart shapes into terminal glyph blocks.
// Shapes come from the implicit heart curve (x²+y²-1)³ - x²y³ <= t,
// supersampled per cell so small sprites keep a recognizable outline.
package sprite

import "sync"

// Style selects how coverage maps to glyphs.
type Style int

const (
	// StyleFilled draws the interior with bullets and soft dot edges.
	StyleFilled Style = iota
	// StyleOutline draws only the boundary band with dots.
	StyleOutline
)

// Size selects one of the preset sprite geometries.
type Size int

const (
	SizeSmall  Size = iota // 9x8 cells
	SizeMedium             // 13x11 cells
	SizeLarge              // 17x15 cells
)

const (
	fillRune = '•'
	softRune = '·'
)

// Dimensions returns the cell geometry for a preset size.
func Dimensions(size Size) (w, h int) {
	switch size {
	case SizeSmall:
		return 9, 8
	case SizeMedium:
		return 13, 11
	default:
		return 17, 15
	}
}

// Mask returns a coverage grid in [0,1] for a heart of the given cell size.
// Supersampling density and curve threshold adapt to the sprite size so tiny
// hearts stay legible.
func Mask(width, height int) [][]float64 {
	// Terminal cells are taller than wide; stretch x for visual balance.
	xScale := 1.12
	if width <= 9 {
		xScale = 1.18
	}
	// Leave a margin inside the grid so the lobes are not clipped.
	shrink := 0.95
	if width <= 7 {
		shrink = 0.90
	}
	threshold := 0.0
	if width <= 7 {
		threshold = 0.01
	}
	ss := 3
	if width <= 9 {
		ss = 4
	}
	inv := 1.0 / float64(ss)

	spanX := float64(width) - 1.0
	if spanX < 1.0 {
		spanX = 1.0
	}
	spanY := float64(height) - 1.0
	if spanY < 1.0 {
		spanY = 1.0
	}

	mask := make([][]float64, height)
	for row := 0; row < height; row++ {
		line := make([]float64, width)
		for col := 0; col < width; col++ {
			inside := 0
			for sr := 0; sr < ss; sr++ {
				for sc := 0; sc < ss; sc++ {
					fr := (float64(row) + (float64(sr)+0.5)*inv) / spanY
					fc := (float64(col) + (float64(sc)+0.5)*inv) / spanX
					y := (1.0 - 2.0*fr) * shrink
					x := (-1.0 + 2.0*fc) * xScale * shrink
					v := x*x + y*y - 1.0
					if v*v*v-x*x*(y*y*y) <= threshold {
						inside++
					}
				}
			}
			line[col] = float64(inside) / float64(ss*ss)
		}
		mask[row] = line
	}
	return mask
}

// Render converts a coverage mask into sprite rows. Rows are trimmed of
// trailing blanks, blank edge rows are dropped, and the result is padded to a
// uniform width.
func Render(mask [][]float64, style Style) []string {
	rows := make([]string, 0, len(mask))
	for _, line := range mask {
		chars := make([]rune, len(line))
		for i, cov := range line {
			chars[i] = glyphFor(cov, style)
		}
		rows = append(rows, trimRight(string(chars)))
	}

	for len(rows) > 0 && rows[0] == "" {
		rows = rows[1:]
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}

	maxw := 0
	for _, r := range rows {
		if n := len([]rune(r)); n > maxw {
			maxw = n
		}
	}
	for i, r := range rows {
		for n := len([]rune(r)); n < maxw; n++ {
			r += " "
		}
		rows[i] = r
	}
	return rows
}

func glyphFor(cov float64, style Style) rune {
	if style == StyleOutline {
		if cov >= 0.25 && cov <= 0.75 {
			return softRune
		}
		return ' '
	}
	switch {
	case cov >= 0.66:
		return fillRune
	case cov >= 0.3:
		return softRune
	default:
		return ' '
	}
}

func trimRight(s string) string {
	runes := []rune(s)
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	return string(runes[:end])
}

type cacheKey struct {
	size  Size
	style Style
}

var (
	cacheMu sync.Mutex
	cache   = make(map[cacheKey][]string)
)

// Heart returns the sprite for a preset size and style. Results are memoized;
// callers must treat the returned rows as read-only.
func Heart(size Size, style Style) []string {
	key := cacheKey{size, style}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if rows, ok := cache[key]; ok {
		return rows
	}

	w, h := Dimensions(size)
	rows := Render(Mask(w, h), style)
	cache[key] = rows
	return rows
}
