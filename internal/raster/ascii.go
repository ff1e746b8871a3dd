// Package raster turns still images into the two printable/displayable
// forms the portal exchanges: a fixed-size ASCII character grid for
// terminal display, and a single composed raster document (header + photo)
// for the printer.
package raster

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// DefaultRamp orders glyphs from most visually dense to least dense; low
// brightness selects dense glyphs. The trailing space is the "white" cell.
const DefaultRamp = "█▓▒@%#*+=-:. "

const gamma = 1.5

// ToASCII converts an image into exactly height rows of width characters
// drawn from ramp. The brightness channel is gamma-corrected (shadows
// brightened) and then stretched per-image to the full 0..255 range, so
// the mapping is deterministic for identical inputs but not comparable
// across calls. An empty ramp falls back to DefaultRamp.
func ToASCII(img image.Image, width, height int, ramp string) []string {
	if ramp == "" {
		ramp = DefaultRamp
	}
	glyphs := []rune(ramp)

	// Grayscale + resize in one pass: scaling into a Gray destination
	// converts through the gray color model.
	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	// All normalization arithmetic stays in float64 until the final ramp
	// lookup; narrowing earlier risks wrap-around on bright images.
	vals := make([]float64, width*height)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i, p := range dst.Pix {
		v := math.Pow(float64(p)/255.0, 1.0/gamma) * 255.0
		vals[i] = v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	// Epsilon keeps the constant-image case from dividing by zero.
	spread := maxV - minV + 1e-5

	rows := make([]string, height)
	line := make([]rune, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := (vals[y*width+x] - minV) / spread * 255.0
			line[x] = glyphs[int(v)*len(glyphs)/256]
		}
		rows[y] = string(line)
	}
	return rows
}
