package display

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"
)

// Text is laid out in 6x8 cells per unit of size, the classic LCD font grid.
const (
	glyphCellWidth  = 6
	glyphCellHeight = 8
)

// glyphRows is the band of the 7x13 face that holds digits and symbols.
var glyphRows = [2]int{2, 12}

// TextBounds returns the rectangle drawText covers for text at (x, y).
func TextBounds(x, y, size int, text string) image.Rectangle {
	n := len([]rune(text))
	return image.Rect(x, y, x+glyphCellWidth*size*n, y+glyphCellHeight*size)
}

// drawText renders text once at native size and scales it up without
// smoothing so pixels stay square at every size.
func drawText(dst draw.Image, x, y, size int, c color.Color, text string) {
	if text == "" || size < 1 {
		return
	}

	face := basicfont.Face7x13
	n := len([]rune(text))

	strip := gg.NewContext(face.Advance*n, face.Height)
	strip.SetFontFace(face)
	strip.SetColor(c)
	strip.DrawString(text, 0, float64(face.Ascent))

	src := strip.Image().(*image.RGBA).SubImage(image.Rect(0, glyphRows[0], strip.Width(), glyphRows[1]))
	draw.NearestNeighbor.Scale(dst, TextBounds(x, y, size, text), src, src.Bounds(), draw.Over, nil)
}
