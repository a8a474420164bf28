// Package indicator draws a battery icon with a percentage readout onto a
// small display.
//
// The icon is composed on offscreen canvases so the screen never shows a
// half-drawn frame: Show pushes a one-bit outline with a transparency key,
// Update repaints only the interior, and Hide paints the whole footprint in
// the background color.
package indicator

import (
	"image/color"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"battindicator/internal/logging"
)

const (
	MaxBatteryVoltage = 4.2
	MinBatteryVoltage = 3.0

	MinScale = 1
	MaxScale = 7

	baseWidth         = 28
	baseHeight        = 10
	baseTerminalWidth = 2
)

// Fill colors, matching the stock TFT palette of the M5StickC.
var (
	ColorCritical = color.RGBA{255, 0, 0, 255}
	ColorCharging = color.RGBA{0, 0, 255, 255}
	ColorNormal   = color.RGBA{0, 128, 0, 255}
)

var transparentKey = color.RGBA{}

type BatteryIndicator struct {
	display Display
	sensor  PowerSensor
	canvas  Canvas

	visible bool
	x, y    int
	scale   int

	width         int
	height        int
	terminalWidth int

	bgColor   color.Color
	lineColor color.Color
	textColor color.Color
}

func New(display Display, sensor PowerSensor) *BatteryIndicator {
	b := &BatteryIndicator{
		display:   display,
		sensor:    sensor,
		bgColor:   color.Black,
		lineColor: color.White,
		textColor: color.White,
	}
	b.SetPosAndSize(0, 0, MinScale)
	return b
}

// SetPosAndSize places the icon's top-left corner at (x, y). scale is
// clamped to [MinScale, MaxScale]. Nothing is drawn.
func (b *BatteryIndicator) SetPosAndSize(x, y, scale int) {
	b.x = x
	b.y = y

	if scale > MaxScale {
		scale = MaxScale
	} else if scale < MinScale {
		scale = MinScale
	}
	b.scale = scale

	b.width = baseWidth * scale
	b.height = baseHeight * scale
	b.terminalWidth = baseTerminalWidth * scale
}

// SetBackgroundColor sets the color Hide erases with.
func (b *BatteryIndicator) SetBackgroundColor(c color.Color) { b.bgColor = c }

// SetStyleColor sets the outline and text color.
func (b *BatteryIndicator) SetStyleColor(c color.Color) {
	b.lineColor = c
	b.textColor = c
}

func (b *BatteryIndicator) Visible() bool { return b.visible }
func (b *BatteryIndicator) Scale() int { return b.scale }
func (b *BatteryIndicator) Width() int { return b.width }
func (b *BatteryIndicator) Height() int { return b.height }
func (b *BatteryIndicator) TerminalWidth() int { return b.terminalWidth }
func (b *BatteryIndicator) Position() (int, int) { return b.x, b.y }

// Show draws the outline and prepares the fill canvas used by Update.
func (b *BatteryIndicator) Show() error {
	b.visible = true
	b.releaseCanvas()
	if err := b.drawOutline(); err != nil {
		return err
	}

	canvas, err := b.display.NewCanvas(b.width-1, b.height-1, Depth16)
	if err != nil {
		return errors.Wrap(err, "allocate fill canvas")
	}
	b.canvas = canvas

	logging.DebugModule("indicator", "shown at (%d,%d) scale %d", b.x, b.y, b.scale)
	return nil
}

// Hide paints the icon's footprint in the background color. The indicator is
// not visible afterwards even if painting fails.
func (b *BatteryIndicator) Hide() error {
	b.visible = false
	b.releaseCanvas()

	canvas, err := b.display.NewCanvas(b.width+b.terminalWidth, b.height+1, Depth16)
	if err != nil {
		return errors.Wrap(err, "allocate erase canvas")
	}
	defer canvas.Release()

	canvas.Fill(b.bgColor)
	if err := canvas.Push(b.x, b.y); err != nil {
		return errors.Wrap(err, "push erase canvas")
	}

	logging.DebugModule("indicator", "hidden at (%d,%d)", b.x, b.y)
	return nil
}

// Update repaints the fill and the percentage text. It does nothing while the
// indicator is hidden.
func (b *BatteryIndicator) Update(level Level) error {
	if !b.visible {
		return nil
	}
	if b.canvas == nil {
		return errors.New("fill canvas not allocated")
	}

	innerW, innerH := b.width-1, b.height-1
	b.canvas.FillRect(0, 0, innerW, innerH, b.bgColor)

	percent, ok := level.Value()
	if !ok {
		percent = b.CalcBatteryPercent()
	}
	percent = clampPercent(percent)

	fillWidth := b.fillWidth(percent)
	b.canvas.FillRect(0, 0, fillWidth+1, innerH, b.FillColor())

	b.canvas.DrawText(b.scale, b.scale, b.scale, b.textColor, strconv.Itoa(percent)+"%")

	if err := b.canvas.Push(b.x+1, b.y+1); err != nil {
		return errors.Wrap(err, "push fill canvas")
	}
	return nil
}

// CalcBatteryPercent maps the battery voltage linearly onto 0-100. Voltages
// outside the calibration range give values outside 0-100.
func (b *BatteryIndicator) CalcBatteryPercent() int {
	return VoltageToPercent(b.sensor.BatteryVoltage())
}

// FillColor picks the fill color for the current power state. A low-battery
// warning takes precedence over charging.
func (b *BatteryIndicator) FillColor() color.Color {
	if b.sensor.LowBatteryWarning() {
		return ColorCritical
	}
	if b.sensor.BatteryCurrent() >= 0 {
		return ColorCharging
	}
	return ColorNormal
}

// VoltageToPercent is the unclamped linear calibration used by CalcBatteryPercent.
func VoltageToPercent(voltage float64) int {
	ratio := (voltage - MinBatteryVoltage) / (MaxBatteryVoltage - MinBatteryVoltage)
	return int(math.Round(ratio * 100))
}

func (b *BatteryIndicator) fillWidth(percent int) int {
	return (b.width - 2) * percent / 100
}

func (b *BatteryIndicator) releaseCanvas() {
	if b.canvas != nil {
		b.canvas.Release()
		b.canvas = nil
	}
}

// drawOutline pushes the hollow body and the terminal nub through a one-bit
// canvas so whatever is under the interior stays untouched.
func (b *BatteryIndicator) drawOutline() error {
	canvas, err := b.display.NewCanvas(b.width+b.terminalWidth, b.height+1, Depth1)
	if err != nil {
		return errors.Wrap(err, "allocate outline canvas")
	}
	defer canvas.Release()

	canvas.Fill(transparentKey)
	canvas.FillRect(0, 0, b.width+1, b.height+1, b.lineColor)
	canvas.FillRect(1, 1, b.width-1, b.height-1, transparentKey)
	canvas.FillRect(b.width+1, b.terminalWidth, b.terminalWidth, b.height-b.terminalWidth*2+1, b.lineColor)

	canvas.SetTransparent(transparentKey)
	if err := canvas.Push(b.x, b.y); err != nil {
		return errors.Wrap(err, "push outline canvas")
	}
	return nil
}

func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
