package indicator

// Level selects the percentage an Update renders.
type Level struct {
	value    int
	explicit bool
}

// Computed asks Update to derive the percentage from the sensor.
var Computed = Level{}

// Explicit renders percent as given. Negative values fall back to Computed.
func Explicit(percent int) Level {
	if percent < 0 {
		return Computed
	}
	return Level{value: percent, explicit: true}
}

// Value reports the explicit percentage and whether one was set.
func (l Level) Value() (int, bool) {
	return l.value, l.explicit
}
