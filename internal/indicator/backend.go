package indicator

import "image/color"

// Depth is the pixel depth of an offscreen canvas in bits.
type Depth int

const (
	Depth1  Depth = 1
	Depth16 Depth = 16
)

// Display allocates offscreen canvases that composite onto one physical screen.
type Display interface {
	NewCanvas(width, height int, depth Depth) (Canvas, error)
}

// Canvas is an offscreen pixel buffer. Coordinates are canvas-local; drawing
// outside the bounds is clipped.
type Canvas interface {
	Fill(c color.Color)
	FillRect(x, y, width, height int, c color.Color)
	// SetTransparent designates key as the color skipped by Push.
	SetTransparent(key color.Color)
	DrawText(x, y, size int, c color.Color, text string)
	// Push composites the canvas onto the screen with its top-left at (x, y).
	Push(x, y int) error
	Release()
}

// PowerSensor reads the power-management chip. Implementations always yield
// a value; read failures are theirs to handle.
type PowerSensor interface {
	BatteryVoltage() float64
	LowBatteryWarning() bool
	// BatteryCurrent is positive while charging and negative on battery.
	BatteryCurrent() float64
}
