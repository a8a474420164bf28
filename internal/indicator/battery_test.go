package indicator

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndicator() (*BatteryIndicator, *recordingDisplay, *stubSensor) {
	d := newRecordingDisplay()
	s := &stubSensor{voltage: 3.9, current: -120}
	return New(d, s), d, s
}

func TestDefaults(t *testing.T) {
	b, d, _ := newTestIndicator()

	x, y := b.Position()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, 1, b.Scale())
	assert.Equal(t, 28, b.Width())
	assert.Equal(t, 10, b.Height())
	assert.Equal(t, 2, b.TerminalWidth())
	assert.False(t, b.Visible())
	assert.Empty(t, d.calls)
}

func TestSetPosAndSizeClampsScale(t *testing.T) {
	tests := []struct {
		name  string
		scale int
		want  int
	}{
		{"zero", 0, 1},
		{"negative", -3, 1},
		{"lower bound", 1, 1},
		{"inside", 4, 4},
		{"upper bound", 7, 7},
		{"ten", 10, 7},
		{"huge", 99, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, d, _ := newTestIndicator()
			b.SetPosAndSize(12, 34, tt.scale)

			x, y := b.Position()
			assert.Equal(t, 12, x)
			assert.Equal(t, 34, y)
			assert.Equal(t, tt.want, b.Scale())
			assert.Equal(t, 28*tt.want, b.Width())
			assert.Equal(t, 10*tt.want, b.Height())
			assert.Equal(t, 2*tt.want, b.TerminalWidth())
			assert.Empty(t, d.calls, "configuration must not draw")
		})
	}
}

func TestCalcBatteryPercent(t *testing.T) {
	tests := []struct {
		voltage float64
		want    int
	}{
		{3.0, 0},
		{4.2, 100},
		{3.6, 50},
		{3.9, 75},
		{2.8, -17},
		{4.5, 125},
	}

	for _, tt := range tests {
		b, _, s := newTestIndicator()
		s.voltage = tt.voltage
		assert.Equal(t, tt.want, b.CalcBatteryPercent(), "voltage %.2f", tt.voltage)
	}
}

func TestFillColorPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		low     bool
		current float64
		want    color.Color
	}{
		{"low while charging", true, 250, ColorCritical},
		{"low on battery", true, -80, ColorCritical},
		{"charging", false, 250, ColorCharging},
		{"idle on usb", false, 0, ColorCharging},
		{"discharging", false, -80, ColorNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, s := newTestIndicator()
			s.low = tt.low
			s.current = tt.current
			assert.Equal(t, tt.want, b.FillColor())
		})
	}
}

func TestShowDrawsOutline(t *testing.T) {
	b, d, _ := newTestIndicator()
	b.SetPosAndSize(5, 7, 1)
	b.SetStyleColor(color.White)

	require.NoError(t, b.Show())
	assert.True(t, b.Visible())

	key := color.RGBA{}
	want := []call{
		{1, "new", []interface{}{30, 11, Depth1}},
		{1, "fill", []interface{}{key}},
		{1, "fillRect", []interface{}{0, 0, 29, 11, color.White}},
		{1, "fillRect", []interface{}{1, 1, 27, 9, key}},
		{1, "fillRect", []interface{}{29, 2, 2, 7, color.White}},
		{1, "transparent", []interface{}{key}},
		{1, "push", []interface{}{5, 7}},
		{1, "release", nil},
		{2, "new", []interface{}{27, 9, Depth16}},
	}
	assert.Equal(t, want, d.calls)
	assert.Equal(t, map[int]bool{2: true}, d.live)
}

func TestUpdateScenario(t *testing.T) {
	b, d, _ := newTestIndicator()
	b.SetBackgroundColor(color.Gray{0x20})
	require.NoError(t, b.Show())
	d.reset()

	require.NoError(t, b.Update(Explicit(75)))

	want := []call{
		{2, "fillRect", []interface{}{0, 0, 27, 9, color.Gray{0x20}}},
		{2, "fillRect", []interface{}{0, 0, 20, 9, ColorNormal}},
		{2, "text", []interface{}{1, 1, 1, color.White, "75%"}},
		{2, "push", []interface{}{1, 1}},
	}
	assert.Equal(t, want, d.calls)
}

func TestUpdateComputesFromSensor(t *testing.T) {
	b, d, s := newTestIndicator()
	s.voltage = 3.6
	s.current = 40
	b.SetPosAndSize(0, 0, 10)
	require.NoError(t, b.Show())
	d.reset()

	require.NoError(t, b.Update(Computed))

	fills := d.ops("fillRect")
	require.Len(t, fills, 2)
	assert.Equal(t, []interface{}{0, 0, 98, 69, ColorCharging}, fills[1].args)

	texts := d.ops("text")
	require.Len(t, texts, 1)
	assert.Equal(t, []interface{}{7, 7, 7, color.White, "50%"}, texts[0].args)
}

func TestUpdateNegativeExplicitFallsBackToSensor(t *testing.T) {
	b, d, s := newTestIndicator()
	s.voltage = 4.2
	require.NoError(t, b.Show())
	d.reset()

	require.NoError(t, b.Update(Explicit(-1)))

	texts := d.ops("text")
	require.Len(t, texts, 1)
	assert.Equal(t, "100%", texts[0].args[4])
}

func TestUpdateClampsRenderedPercent(t *testing.T) {
	tests := []struct {
		name     string
		voltage  float64
		wantText string
		wantFill int
	}{
		{"over voltage", 4.6, "100%", 27},
		{"under voltage", 2.5, "0%", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, d, s := newTestIndicator()
			s.voltage = tt.voltage
			require.NoError(t, b.Show())
			d.reset()

			require.NoError(t, b.Update(Computed))

			fills := d.ops("fillRect")
			require.Len(t, fills, 2)
			assert.Equal(t, tt.wantFill, fills[1].args[2])
			assert.Equal(t, tt.wantText, d.ops("text")[0].args[4])
		})
	}
}

func TestUpdateWhileHiddenIsNoop(t *testing.T) {
	b, d, s := newTestIndicator()

	require.NoError(t, b.Update(Explicit(50)))
	require.NoError(t, b.Update(Computed))

	assert.Empty(t, d.calls)
	assert.Zero(t, s.readings)
}

func TestShowHideUpdate(t *testing.T) {
	b, d, s := newTestIndicator()
	require.NoError(t, b.Show())
	require.NoError(t, b.Hide())
	d.reset()
	s.readings = 0

	require.NoError(t, b.Update(Explicit(50)))

	assert.False(t, b.Visible())
	assert.Empty(t, d.calls)
	assert.Zero(t, s.readings)
}

func TestHidePaintsBackground(t *testing.T) {
	b, d, _ := newTestIndicator()
	b.SetPosAndSize(3, 4, 2)
	b.SetBackgroundColor(color.Black)
	require.NoError(t, b.Show())
	d.reset()

	require.NoError(t, b.Hide())

	want := []call{
		{2, "release", nil},
		{3, "new", []interface{}{60, 21, Depth16}},
		{3, "fill", []interface{}{color.Black}},
		{3, "push", []interface{}{3, 4}},
		{3, "release", nil},
	}
	assert.Equal(t, want, d.calls)
	assert.False(t, b.Visible())
	assert.Empty(t, d.live)
}

func TestHideReleasesEachCanvasOnce(t *testing.T) {
	b, d, _ := newTestIndicator()

	require.NoError(t, b.Hide())
	require.NoError(t, b.Show())
	require.NoError(t, b.Update(Explicit(10)))
	require.NoError(t, b.Hide())
	require.NoError(t, b.Hide())

	assert.False(t, b.Visible())
	assert.Empty(t, d.live)
	for id, n := range d.released {
		assert.Equal(t, 1, n, "canvas #%d", id)
	}
	assert.Len(t, d.ops("new"), len(d.released))
}

func TestHideAllocationFailureStillHides(t *testing.T) {
	b, d, _ := newTestIndicator()
	require.NoError(t, b.Show())
	d.failNext = errNoMemory

	err := b.Hide()
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoMemory)
	assert.False(t, b.Visible())
	assert.Empty(t, d.live)
}

func TestShowAllocationFailure(t *testing.T) {
	b, d, _ := newTestIndicator()
	d.failNext = errNoMemory

	err := b.Show()
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoMemory)
	assert.Contains(t, err.Error(), "outline canvas")
}

func TestShowTwiceDoesNotLeak(t *testing.T) {
	b, d, _ := newTestIndicator()
	require.NoError(t, b.Show())
	require.NoError(t, b.Show())

	assert.Len(t, d.live, 1)
	require.NoError(t, b.Update(Explicit(30)))
	assert.Equal(t, 4, d.ops("push")[len(d.ops("push"))-1].canvas)
}

func TestShowReleasesFillCanvasFirst(t *testing.T) {
	b, d, _ := newTestIndicator()
	require.NoError(t, b.Show())
	d.reset()

	require.NoError(t, b.Show())
	require.NotEmpty(t, d.calls)
	assert.Equal(t, call{2, "release", nil}, d.calls[0])
	assert.Equal(t, "new", d.calls[1].op)
	assert.Equal(t, 3, d.calls[1].canvas)
}

func TestReshowAfterHide(t *testing.T) {
	b, d, _ := newTestIndicator()
	require.NoError(t, b.Show())
	require.NoError(t, b.Hide())
	require.NoError(t, b.Show())
	d.reset()

	require.NoError(t, b.Update(Explicit(100)))
	assert.True(t, b.Visible())
	assert.Len(t, d.ops("push"), 1)
}

func TestFillWidth(t *testing.T) {
	b, _, _ := newTestIndicator()
	b.SetPosAndSize(0, 0, 10)
	assert.Equal(t, 196, b.Width())
	assert.Equal(t, 97, b.fillWidth(50))

	b.SetPosAndSize(0, 0, 1)
	assert.Equal(t, 19, b.fillWidth(75))
	assert.Equal(t, 0, b.fillWidth(0))
	assert.Equal(t, 26, b.fillWidth(100))
}
