package display

import (
	"image"
	"image/color"
)

// ColorRGB565 is a 16-bit 5-6-5 color as stored by small TFT panels and the
// AX206 frame buffer.
type ColorRGB565 struct {
	C uint16
}

func (c ColorRGB565) RGBA() (r, g, b, a uint32) {
	r = uint32((c.C >> 11 & 0x1f) << 3)
	r |= r << 8
	g = uint32((c.C >> 5 & 0x3f) << 2)
	g |= g << 8
	b = uint32((c.C & 0x1f) << 3)
	b |= b << 8
	a = 0xffff
	return
}

func rgb565Model(c color.Color) color.Color {
	if _, ok := c.(ColorRGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return ColorRGB565{uint16(r&0xF800) | uint16((g&0xFC00)>>5) | uint16((b&0xF800)>>11)}
}

var RGB565Model color.Model = color.ModelFunc(rgb565Model)

// ImageRGB565 is a big-endian RGB565 image.
type ImageRGB565 struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func NewRGB565Image(src image.Image) *ImageRGB565 {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	img := &ImageRGB565{
		Pix:    make([]uint8, w*h*2),
		Stride: w * 2,
		Rect:   image.Rect(0, 0, w, h),
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x-bounds.Min.X, y-bounds.Min.Y, src.At(x, y))
		}
	}
	return img
}

func (p *ImageRGB565) ColorModel() color.Model { return RGB565Model }
func (p *ImageRGB565) Bounds() image.Rectangle { return p.Rect }

func (p *ImageRGB565) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

func (p *ImageRGB565) RGB565At(x, y int) ColorRGB565 {
	if !(image.Point{x, y}.In(p.Rect)) {
		return ColorRGB565{}
	}
	i := p.PixOffset(x, y)
	return ColorRGB565{uint16(p.Pix[i])<<8 | uint16(p.Pix[i+1])}
}

func (p *ImageRGB565) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *ImageRGB565) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	c1 := RGB565Model.Convert(c).(ColorRGB565)
	p.Pix[i] = uint8(c1.C >> 8)
	p.Pix[i+1] = uint8(c1.C)
}

// PixRect returns the pixels of Rect as one contiguous buffer.
func (p *ImageRGB565) PixRect() []byte {
	r := p.Rect
	dxb := r.Dx() * 2
	data := make([]byte, r.Dy()*dxb)
	py := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := p.PixOffset(r.Min.X, y)
		copy(data[py:], p.Pix[start:start+dxb])
		py += dxb
	}
	return data
}
