package display

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"battindicator/internal/indicator"
)

type canvas struct {
	screen *Screen
	img    *image.RGBA
	depth  indicator.Depth
	size   int

	key      color.RGBA
	keyed    bool
	released bool
}

func newCanvas(s *Screen, width, height int, depth indicator.Depth, size int) *canvas {
	return &canvas{
		screen: s,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:  depth,
		size:   size,
	}
}

// quantize maps c onto what the canvas depth can hold. One-bit canvases keep
// either nothing (fully transparent) or the opaque ink color. 16-bit canvases
// keep full precision so they match the framebuffer; panels that only take
// RGB565 convert the whole frame on output.
func (c *canvas) quantize(col color.Color) color.RGBA {
	rgba := color.RGBAModel.Convert(col).(color.RGBA)
	switch c.depth {
	case indicator.Depth1:
		if rgba.A == 0 {
			return color.RGBA{}
		}
		rgba.A = 0xff
		return rgba
	default:
		return rgba
	}
}

func (c *canvas) Fill(col color.Color) {
	if c.released {
		return
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.quantize(col)), image.Point{}, draw.Src)
}

func (c *canvas) FillRect(x, y, width, height int, col color.Color) {
	if c.released {
		return
	}
	r := image.Rect(x, y, x+width, y+height).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(c.quantize(col)), image.Point{}, draw.Src)
}

func (c *canvas) SetTransparent(key color.Color) {
	c.key = c.quantize(key)
	c.keyed = true
}

func (c *canvas) DrawText(x, y, size int, col color.Color, text string) {
	if c.released {
		return
	}
	drawText(c.img, x, y, size, c.quantize(col), text)
}

func (c *canvas) Push(x, y int) error {
	if c.released {
		return errors.New("push of released canvas")
	}

	dst := c.screen.Image()
	r := c.img.Bounds().Add(image.Pt(x, y))
	if !c.keyed {
		draw.Draw(dst, r, c.img, image.Point{}, draw.Src)
		return nil
	}
	draw.DrawMask(dst, r, c.img, image.Point{}, c.keyMask(), image.Point{}, draw.Over)
	return nil
}

// keyMask is opaque wherever the canvas pixel differs from the transparency key.
func (c *canvas) keyMask() *image.Alpha {
	b := c.img.Bounds()
	mask := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.img.RGBAAt(x, y) != c.key {
				mask.Pix[mask.PixOffset(x, y)] = 0xff
			}
		}
	}
	return mask
}

func (c *canvas) Release() {
	if c.released {
		return
	}
	c.released = true
	c.img = nil
	c.screen.free(c.size)
}
