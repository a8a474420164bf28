// Package power provides battery sensors for the indicator: the AXP192 power
// management chip found on M5StickC boards, the host's own battery, and a
// simulated cell for previews.
package power

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"

	"battindicator/internal/logging"
)

const AXP192Addr = 0x34

const (
	regIRQStatus4          = 0x47
	regBatVoltage          = 0x78
	regBatChargeCurrent    = 0x7a
	regBatDischargeCurrent = 0x7c
	regADCEnable1          = 0x82

	voltageLSB = 1.1 / 1000 // V per LSB
	currentLSB = 0.5        // mA per LSB
)

// AXP192 reads battery state over I2C. The sensor methods never fail: a
// failed read is logged and the last good value is returned.
type AXP192 struct {
	dev *i2c.Dev

	voltage float64
	current float64
	low     bool

	lastError time.Time
}

func NewAXP192(bus i2c.Bus) *AXP192 {
	return &AXP192{dev: &i2c.Dev{Addr: AXP192Addr, Bus: bus}}
}

// Init turns on every ADC so voltage and current registers update.
func (a *AXP192) Init() error {
	if _, err := a.dev.Write([]byte{regADCEnable1, 0xff}); err != nil {
		return errors.Wrap(err, "enable axp192 adcs")
	}
	return nil
}

// ReadVoltage returns the battery voltage in volts.
func (a *AXP192) ReadVoltage() (float64, error) {
	raw, err := a.read12(regBatVoltage)
	if err != nil {
		return 0, errors.Wrap(err, "read battery voltage")
	}
	return float64(raw) * voltageLSB, nil
}

// ReadCurrent returns charge minus discharge current in mA.
func (a *AXP192) ReadCurrent() (float64, error) {
	in, err := a.read13(regBatChargeCurrent)
	if err != nil {
		return 0, errors.Wrap(err, "read charge current")
	}
	out, err := a.read13(regBatDischargeCurrent)
	if err != nil {
		return 0, errors.Wrap(err, "read discharge current")
	}
	return (float64(in) - float64(out)) * currentLSB, nil
}

// ReadWarning reports the APS low-voltage warning level flag.
func (a *AXP192) ReadWarning() (bool, error) {
	buf := make([]byte, 1)
	if err := a.dev.Tx([]byte{regIRQStatus4}, buf); err != nil {
		return false, errors.Wrap(err, "read warning level")
	}
	return buf[0]&0x01 != 0, nil
}

func (a *AXP192) BatteryVoltage() float64 {
	if v, err := a.ReadVoltage(); err != nil {
		a.readFailed(err)
	} else {
		a.voltage = v
	}
	return a.voltage
}

func (a *AXP192) BatteryCurrent() float64 {
	if c, err := a.ReadCurrent(); err != nil {
		a.readFailed(err)
	} else {
		a.current = c
	}
	return a.current
}

func (a *AXP192) LowBatteryWarning() bool {
	if low, err := a.ReadWarning(); err != nil {
		a.readFailed(err)
	} else {
		a.low = low
	}
	return a.low
}

func (a *AXP192) readFailed(err error) {
	if time.Since(a.lastError) > 10*time.Second {
		logging.WarnModule("axp192", "%v", err)
		a.lastError = time.Now()
	}
}

// read12 reads a 12-bit ADC value split as 8 high bits and a low nibble.
func (a *AXP192) read12(reg byte) (uint16, error) {
	buf := make([]byte, 2)
	if err := a.dev.Tx([]byte{reg}, buf); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<4 | uint16(buf[1]&0x0f), nil
}

// read13 reads a 13-bit ADC value split as 8 high bits and 5 low bits.
func (a *AXP192) read13(reg byte) (uint16, error) {
	buf := make([]byte, 2)
	if err := a.dev.Tx([]byte{reg}, buf); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<5 | uint16(buf[1]&0x1f), nil
}
