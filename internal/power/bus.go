package power

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"battindicator/internal/logging"
)

// OpenI2C initializes the host drivers and opens the named bus. An empty name
// selects the first bus found.
func OpenI2C(name string) (i2c.BusCloser, error) {
	state, err := host.Init()
	if err != nil {
		return nil, errors.Wrap(err, "init host drivers")
	}
	logging.DebugModule("i2c", "%d host drivers loaded", len(state.Loaded))

	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", name)
	}
	logging.InfoModule("i2c", "Opened %s", bus)
	return bus, nil
}
