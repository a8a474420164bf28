//go:build windows

package display

import (
	"image"

	"github.com/pkg/errors"
)

// AX206USBOutputHandler is unavailable on Windows, where libusb is not wired up.
// Every frame fails so the output manager reports it alongside working sinks.
type AX206USBOutputHandler struct{}

func NewAX206USBOutputHandler(brightness int) *AX206USBOutputHandler {
	return &AX206USBOutputHandler{}
}

func (h *AX206USBOutputHandler) GetType() string {
	return "ax206usb"
}

func (h *AX206USBOutputHandler) Output(image.Image) error {
	return errors.New("ax206usb output needs libusb and is not built on windows")
}

func (h *AX206USBOutputHandler) Close() error {
	return nil
}
