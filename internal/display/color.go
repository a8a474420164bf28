package display

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseColor converts a "#rrggbb" or "rrggbb" string to an opaque color.
func ParseColor(hexColor string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(hex) != 6 {
		return color.RGBA{}, errors.Errorf("invalid color %q: want #rrggbb", hexColor)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid color %q", hexColor)
	}

	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}
