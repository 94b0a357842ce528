package sprite

import (
	"strings"
	"testing"
)

func TestDimensions(t *testing.T) {
	tests := []struct {
		name  string
		size  Size
		wantW int
		wantH int
	}{
		{name: "Small", size: SizeSmall, wantW: 9, wantH: 8},
		{name: "Medium", size: SizeMedium, wantW: 13, wantH: 11},
		{name: "Large", size: SizeLarge, wantW: 17, wantH: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Dimensions(tt.size)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Dimensions(%v) = (%d, %d), want (%d, %d)", tt.size, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestMaskShape(t *testing.T) {
	mask := Mask(13, 11)
	if len(mask) != 11 {
		t.Fatalf("Mask rows = %d, want 11", len(mask))
	}
	for r, line := range mask {
		if len(line) != 13 {
			t.Fatalf("Mask row %d has %d cols, want 13", r, len(line))
		}
		for c, cov := range line {
			if cov < 0.0 || cov > 1.0 {
				t.Errorf("Mask[%d][%d] = %v, want within [0,1]", r, c, cov)
			}
		}
	}
}

func TestMaskCenterIsInside(t *testing.T) {
	mask := Mask(13, 11)
	// The middle of the heart body is deep inside the curve.
	if cov := mask[5][6]; cov < 0.9 {
		t.Errorf("center coverage = %v, want >= 0.9", cov)
	}
}

func TestRenderFilled(t *testing.T) {
	rows := Heart(SizeMedium, StyleFilled)
	if len(rows) == 0 {
		t.Fatal("filled sprite is empty")
	}

	width := len([]rune(rows[0]))
	sawFill := false
	for i, row := range rows {
		if n := len([]rune(row)); n != width {
			t.Errorf("row %d width = %d, want %d", i, n, width)
		}
		for _, r := range row {
			switch r {
			case fillRune:
				sawFill = true
			case softRune, ' ':
			default:
				t.Errorf("row %d contains unexpected rune %q", i, r)
			}
		}
	}
	if !sawFill {
		t.Error("filled sprite has no interior bullets")
	}
}

func TestRenderOutline(t *testing.T) {
	rows := Heart(SizeSmall, StyleOutline)
	if len(rows) == 0 {
		t.Fatal("outline sprite is empty")
	}

	joined := strings.Join(rows, "")
	if strings.ContainsRune(joined, fillRune) {
		t.Error("outline sprite contains interior bullets")
	}
	if !strings.ContainsRune(joined, softRune) {
		t.Error("outline sprite has no boundary dots")
	}
}

func TestRenderTrimsBlankEdges(t *testing.T) {
	for _, size := range []Size{SizeSmall, SizeMedium, SizeLarge} {
		rows := Heart(size, StyleFilled)
		_, h := Dimensions(size)
		if len(rows) == 0 || len(rows) > h {
			t.Errorf("size %v: %d rows, want within (0, %d]", size, len(rows), h)
		}
		if strings.TrimSpace(rows[0]) == "" {
			t.Errorf("size %v: first row is blank", size)
		}
		if strings.TrimSpace(rows[len(rows)-1]) == "" {
			t.Errorf("size %v: last row is blank", size)
		}
	}
}

func TestHeartGrowsWithSize(t *testing.T) {
	small := Heart(SizeSmall, StyleFilled)
	large := Heart(SizeLarge, StyleFilled)
	if len(large) <= len(small) {
		t.Errorf("large sprite rows = %d, small = %d, want large > small", len(large), len(small))
	}
}

func TestHeartMemoized(t *testing.T) {
	first := Heart(SizeMedium, StyleFilled)
	second := Heart(SizeMedium, StyleFilled)
	if len(first) != len(second) {
		t.Fatalf("memoized sprite changed size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("memoized sprite row %d differs", i)
		}
	}
}
