package display

import (
	"image"

	"battindicator/internal/logging"
)

// OutputHandler receives finished frames.
type OutputHandler interface {
	Output(img image.Image) error
	Close() error
	GetType() string
}

type OutputManager struct {
	handlers []OutputHandler
}

func NewOutputManager() *OutputManager {
	return &OutputManager{
		handlers: make([]OutputHandler, 0),
	}
}

func (om *OutputManager) AddHandler(handler OutputHandler) {
	om.handlers = append(om.handlers, handler)
}

func (om *OutputManager) Len() int { return len(om.handlers) }

// Output fans img out to every handler. It fails only if all handlers fail.
func (om *OutputManager) Output(img image.Image) error {
	var lastErr error
	hasSuccess := false

	for _, handler := range om.handlers {
		if err := handler.Output(img); err != nil {
			logging.WarnModule("output", "%s failed: %v", handler.GetType(), err)
			lastErr = err
		} else {
			hasSuccess = true
		}
	}

	if !hasSuccess && lastErr != nil {
		return lastErr
	}
	return nil
}

func (om *OutputManager) Close() {
	for _, handler := range om.handlers {
		if err := handler.Close(); err != nil {
			logging.WarnModule("output", "%s close failed: %v", handler.GetType(), err)
		}
	}
}
