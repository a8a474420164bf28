package display

import (
	"image"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"

	"battindicator/internal/logging"
)

// SSD1306OutputHandler mirrors the top-left corner of each frame onto a
// monochrome SSD1306 OLED. Pixels are thresholded by the driver.
type SSD1306OutputHandler struct {
	dev *ssd1306.Dev
}

func NewSSD1306OutputHandler(bus i2c.Bus, width, height int) (*SSD1306OutputHandler, error) {
	opts := ssd1306.DefaultOpts
	if width > 0 {
		opts.W = width
	}
	if height > 0 {
		opts.H = height
	}

	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, errors.Wrap(err, "init ssd1306")
	}
	logging.InfoModule("ssd1306", "Panel ready (%dx%d)", opts.W, opts.H)
	return &SSD1306OutputHandler{dev: dev}, nil
}

func (s *SSD1306OutputHandler) GetType() string {
	return "ssd1306"
}

func (s *SSD1306OutputHandler) Output(img image.Image) error {
	return s.dev.Draw(s.dev.Bounds(), img, img.Bounds().Min)
}

func (s *SSD1306OutputHandler) Close() error {
	return s.dev.Halt()
}
