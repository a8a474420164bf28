package indicator

import (
	"errors"
	"fmt"
	"image/color"
)

type call struct {
	canvas int
	op     string
	args   []interface{}
}

func (c call) String() string {
	return fmt.Sprintf("#%d %s%v", c.canvas, c.op, c.args)
}

// recordingDisplay hands out canvases that log every operation in order.
type recordingDisplay struct {
	calls    []call
	live     map[int]bool
	released map[int]int
	next     int
	failNext error
}

func newRecordingDisplay() *recordingDisplay {
	return &recordingDisplay{live: map[int]bool{}, released: map[int]int{}}
}

func (d *recordingDisplay) NewCanvas(width, height int, depth Depth) (Canvas, error) {
	if d.failNext != nil {
		err := d.failNext
		d.failNext = nil
		return nil, err
	}
	d.next++
	id := d.next
	d.live[id] = true
	d.calls = append(d.calls, call{id, "new", []interface{}{width, height, depth}})
	return &recordingCanvas{id: id, display: d}, nil
}

func (d *recordingDisplay) ops(op string) []call {
	var out []call
	for _, c := range d.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (d *recordingDisplay) reset() { d.calls = nil }

type recordingCanvas struct {
	id      int
	display *recordingDisplay
}

func (c *recordingCanvas) record(op string, args ...interface{}) {
	c.display.calls = append(c.display.calls, call{c.id, op, args})
}

func (c *recordingCanvas) Fill(col color.Color) { c.record("fill", col) }

func (c *recordingCanvas) FillRect(x, y, w, h int, col color.Color) {
	c.record("fillRect", x, y, w, h, col)
}

func (c *recordingCanvas) SetTransparent(key color.Color) { c.record("transparent", key) }

func (c *recordingCanvas) DrawText(x, y, size int, col color.Color, text string) {
	c.record("text", x, y, size, col, text)
}

func (c *recordingCanvas) Push(x, y int) error {
	c.record("push", x, y)
	return nil
}

func (c *recordingCanvas) Release() {
	c.record("release")
	c.display.released[c.id]++
	delete(c.display.live, c.id)
}

type stubSensor struct {
	voltage  float64
	low      bool
	current  float64
	readings int
}

func (s *stubSensor) BatteryVoltage() float64 { s.readings++; return s.voltage }
func (s *stubSensor) LowBatteryWarning() bool { s.readings++; return s.low }
func (s *stubSensor) BatteryCurrent() float64 { s.readings++; return s.current }

var errNoMemory = errors.New("out of canvas memory")
