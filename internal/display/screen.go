// Package display implements the indicator's graphics backend on top of an
// in-memory framebuffer. Frames are sent to physical panels or files through
// output handlers.
package display

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"battindicator/internal/indicator"
	"battindicator/internal/logging"
)

// ErrOutOfMemory is returned when a canvas would exceed the screen's budget.
var ErrOutOfMemory = errors.New("canvas memory exhausted")

// Screen is the framebuffer of one physical display.
type Screen struct {
	dc      *gg.Context
	outputs *OutputManager

	budget int
	used   int
	live   int
}

func NewScreen(width, height int, background color.Color) *Screen {
	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	return &Screen{
		dc:      dc,
		outputs: NewOutputManager(),
	}
}

// SetCanvasBudget caps the bytes held by live canvases. Zero means no cap.
func (s *Screen) SetCanvasBudget(bytes int) {
	s.budget = bytes
}

func (s *Screen) Outputs() *OutputManager { return s.outputs }

func (s *Screen) Width() int  { return s.dc.Width() }
func (s *Screen) Height() int { return s.dc.Height() }

// InUse reports the bytes and count of canvases not yet released.
func (s *Screen) InUse() (bytes, canvases int) {
	return s.used, s.live
}

func (s *Screen) Image() *image.RGBA {
	return s.dc.Image().(*image.RGBA)
}

func (s *Screen) NewCanvas(width, height int, depth indicator.Depth) (indicator.Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid canvas size %dx%d", width, height)
	}
	if depth != indicator.Depth1 && depth != indicator.Depth16 {
		return nil, errors.Errorf("unsupported canvas depth %d", depth)
	}

	size := (width*height*int(depth) + 7) / 8
	if s.budget > 0 && s.used+size > s.budget {
		logging.WarnModule("display", "canvas %dx%d@%d needs %d bytes, %d of %d in use",
			width, height, depth, size, s.used, s.budget)
		return nil, ErrOutOfMemory
	}

	s.used += size
	s.live++
	return newCanvas(s, width, height, depth, size), nil
}

func (s *Screen) free(size int) {
	s.used -= size
	s.live--
}

// Flush sends the current frame to every output.
func (s *Screen) Flush() error {
	return s.outputs.Output(s.dc.Image())
}

func (s *Screen) Close() {
	s.outputs.Close()
}
