package power

import (
	"time"

	"github.com/distatus/battery"

	"battindicator/internal/logging"
)

const (
	nominalCellVoltage = 3.7
	hostLowCharge      = 0.10
)

// Host reports the machine's own battery, scaled to look like a single
// Li-ion cell so the indicator's voltage calibration applies.
type Host struct {
	index int
	get   func(idx int) (*battery.Battery, error)

	last      battery.Battery
	lastError time.Time
}

func NewHost(index int) *Host {
	return &Host{index: index, get: battery.Get}
}

func (h *Host) read() *battery.Battery {
	bat, err := h.get(h.index)
	if bat == nil {
		if time.Since(h.lastError) > 10*time.Second {
			logging.WarnModule("hostbat", "battery %d unreadable: %v", h.index, err)
			h.lastError = time.Now()
		}
		return &h.last
	}
	if err != nil {
		logging.DebugModule("hostbat", "partial read of battery %d: %v", h.index, err)
	}
	h.last = *bat
	return bat
}

// BatteryVoltage is the pack voltage divided down to one nominal cell.
func (h *Host) BatteryVoltage() float64 {
	bat := h.read()
	if bat.DesignVoltage <= 0 {
		return bat.Voltage
	}
	return bat.Voltage * nominalCellVoltage / bat.DesignVoltage
}

// BatteryCurrent is the charge rate in mW, negative while discharging.
func (h *Host) BatteryCurrent() float64 {
	bat := h.read()
	if bat.State.Raw == battery.Discharging {
		return -bat.ChargeRate
	}
	return bat.ChargeRate
}

func (h *Host) LowBatteryWarning() bool {
	bat := h.read()
	if bat.Full <= 0 {
		return false
	}
	return bat.Current/bat.Full < hostLowCharge
}
