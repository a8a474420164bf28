package power

// LowVoltageWarning is the AXP192's default APS warning threshold.
const LowVoltageWarning = 3.4

const (
	simMaxVoltage = 4.2
	simMinVoltage = 3.0
)

// Simulated is a cell that discharges to empty, then charges back to full,
// moving by Step volts per Tick.
type Simulated struct {
	Step float64

	voltage  float64
	charging bool
}

func NewSimulated(step float64) *Simulated {
	return &Simulated{Step: step, voltage: simMaxVoltage}
}

func (s *Simulated) Tick() {
	if s.charging {
		s.voltage += s.Step
		if s.voltage >= simMaxVoltage {
			s.voltage = simMaxVoltage
			s.charging = false
		}
		return
	}

	s.voltage -= s.Step
	if s.voltage <= simMinVoltage {
		s.voltage = simMinVoltage
		s.charging = true
	}
}

func (s *Simulated) BatteryVoltage() float64 { return s.voltage }
func (s *Simulated) LowBatteryWarning() bool { return s.voltage <= LowVoltageWarning }

func (s *Simulated) BatteryCurrent() float64 {
	if s.charging {
		return 100
	}
	return -100
}
