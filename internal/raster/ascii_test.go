package raster

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"
)

func solidGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestToASCIIGridShape(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 123, 77))
	for y := 0; y < 77; y++ {
		for x := 0; x < 123; x++ {
			src.Set(x, y, color.RGBA{uint8(x * 2), uint8(y * 3), 0, 255})
		}
	}

	for _, dims := range [][2]int{{60, 30}, {80, 40}, {1, 1}, {7, 13}} {
		w, h := dims[0], dims[1]
		rows := ToASCII(src, w, h, DefaultRamp)
		if len(rows) != h {
			t.Fatalf("%dx%d: got %d rows", w, h, len(rows))
		}
		for i, row := range rows {
			if n := utf8.RuneCountInString(row); n != w {
				t.Fatalf("%dx%d: row %d has %d cells", w, h, i, n)
			}
		}
	}
}

func TestToASCIIRampAlphabet(t *testing.T) {
	src := solidGray(10, 10, 137)
	glyphs := map[rune]bool{}
	for _, r := range DefaultRamp {
		glyphs[r] = true
	}
	for _, row := range ToASCII(src, 8, 8, DefaultRamp) {
		for _, r := range row {
			if !glyphs[r] {
				t.Fatalf("cell %q is not in the ramp", r)
			}
		}
	}
}

func TestToASCIIBrightnessMonotonic(t *testing.T) {
	// Left half dark, right half bright, inside one call so the shared
	// normalization applies to both.
	src := image.NewGray(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			v := uint8(40)
			if x >= 20 {
				v = 220
			}
			src.SetGray(x, y, color.Gray{Y: v})
		}
	}

	rows := ToASCII(src, 20, 10, DefaultRamp)
	cells := []rune(rows[5])
	darkIdx := strings.IndexRune(DefaultRamp, cells[2])
	brightIdx := strings.IndexRune(DefaultRamp, cells[17])
	if darkIdx < 0 || brightIdx < 0 {
		t.Fatalf("cells %q/%q not found in ramp", cells[2], cells[17])
	}
	if darkIdx > brightIdx {
		t.Fatalf("darker pixel got sparser glyph: dark=%d bright=%d", darkIdx, brightIdx)
	}
}

func TestToASCIIConstantImage(t *testing.T) {
	// A flat image exercises the epsilon guard: the spread is zero and
	// normalization must not divide by zero. Every value lands at the
	// bottom of the range, i.e. the densest glyph.
	rows := ToASCII(solidGray(16, 16, 200), 10, 5, DefaultRamp)
	dense := []rune(DefaultRamp)[0]
	for _, row := range rows {
		for _, r := range row {
			if r != dense {
				t.Fatalf("expected uniform %q, got %q", dense, r)
			}
		}
	}
}

func TestToASCIIDeterministic(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for i := range src.Pix {
		src.Pix[i] = byte(i * 7)
	}
	a := ToASCII(src, 30, 15, DefaultRamp)
	b := ToASCII(src, 30, 15, DefaultRamp)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs between identical calls", i)
		}
	}
}
