package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"
)

// Print document layout. The canvas never drops below minCanvasWidth so
// the header always has room, even for tiny photos.
const (
	minCanvasWidth = 400
	headerHeight   = 100
	bottomPadding  = 50
	jpegQuality    = 85
)

// ComposePrintDocument builds the single raster that goes to the printer:
// a text header (separator, sender, timestamp, separator) above the photo,
// horizontally centered, on a white canvas, encoded as JPEG. Photos wider
// than maxPhotoWidth are downscaled with aspect preserved; narrower photos
// are left alone. An undecodable photo yields an error; callers skip
// printing rather than submit a partial job.
func ComposePrintDocument(sender, timestamp string, photo []byte, maxPhotoWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return nil, fmt.Errorf("compose: decode photo: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxPhotoWidth {
		nh := h * maxPhotoWidth / w
		scaled := image.NewRGBA(image.Rect(0, 0, maxPhotoWidth, nh))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)
		img, w, h = scaled, maxPhotoWidth, nh
	}

	canvasW := w
	if canvasW < minCanvasWidth {
		canvasW = minCanvasWidth
	}
	canvasH := headerHeight + h + bottomPadding

	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawHeader(canvas, sender, timestamp)

	// Center the photo below the header block.
	offset := image.Pt((canvasW-w)/2, headerHeight)
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(image.Pt(w, h))},
		img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("compose: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(dst draw.Image, sender, timestamp string) {
	title, small := headerFaces()
	sep := strings.Repeat("=", 50)

	line := func(face font.Face, y int, s string) {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.Black,
			Face: face,
			Dot:  fixed.P(10, y),
		}
		d.DrawString(s)
	}

	line(small, 20, sep)
	line(title, 42, "IMAGE FROM: "+sender)
	line(small, 62, "Time: "+timestamp)
	line(small, 82, sep)
}
