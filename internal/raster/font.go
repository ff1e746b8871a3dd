package raster

import (
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Candidate system fonts for the header, tried in order. The list covers
// the common Linux font packages; missing fonts are expected and fine.
var headerFontPaths = []string{
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
}

// headerFaces returns the title and small faces for the print header.
// The lookup is best-effort: any failure falls through to the bundled
// basicfont face. This degradation is silent; it must never
// surface as an error.
func headerFaces() (title, small font.Face) {
	for _, path := range headerFontPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		title, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 16, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			continue
		}
		small, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			continue
		}
		return title, small
	}
	return basicfont.Face7x13, basicfont.Face7x13
}
