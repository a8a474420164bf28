package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/i2c"

	"battindicator/internal/display"
	"battindicator/internal/indicator"
	"battindicator/internal/logging"
	"battindicator/internal/power"
)

// hardware owns resources opened on behalf of the sensor and outputs.
type hardware struct {
	busName string
	bus     i2c.BusCloser
	closers []io.Closer
}

func (hw *hardware) openBus() (i2c.Bus, error) {
	if hw.bus != nil {
		return hw.bus, nil
	}
	bus, err := power.OpenI2C(hw.busName)
	if err != nil {
		return nil, err
	}
	hw.bus = bus
	hw.closers = append(hw.closers, bus)
	return bus, nil
}

func (hw *hardware) Close() {
	for i := len(hw.closers) - 1; i >= 0; i-- {
		hw.closers[i].Close()
	}
}

// ticker is implemented by sensors that advance on every redraw.
type ticker interface {
	Tick()
}

func openSensor(c *cli.Context, hw *hardware) (indicator.PowerSensor, error) {
	switch kind := strings.ToLower(c.String("sensor")); kind {
	case "axp192":
		bus, err := hw.openBus()
		if err != nil {
			return nil, err
		}
		axp := power.NewAXP192(bus)
		if err := axp.Init(); err != nil {
			return nil, err
		}
		return axp, nil
	case "host":
		return power.NewHost(c.Int("battery-index")), nil
	case "sim", "simulated":
		return power.NewSimulated(c.Float64("sim-step")), nil
	default:
		return nil, errors.Errorf("unknown sensor %q", kind)
	}
}

func openScreen(c *cli.Context, hw *hardware, bg color.RGBA) (*display.Screen, error) {
	screen := display.NewScreen(c.Int("width"), c.Int("height"), bg)
	screen.SetCanvasBudget(c.Int("canvas-budget"))

	for _, mode := range c.StringSlice("output") {
		switch mode = strings.ToLower(strings.TrimSpace(mode)); mode {
		case "file":
			screen.Outputs().AddHandler(display.NewFileOutputHandler(c.String("output-file")))
		case "ax206usb":
			logging.InfoModule("ax206usb", "Initializing handler")
			screen.Outputs().AddHandler(display.NewAX206USBOutputHandler(c.Int("brightness")))
		case "ssd1306":
			bus, err := hw.openBus()
			if err != nil {
				return nil, err
			}
			handler, err := display.NewSSD1306OutputHandler(bus, 0, 0)
			if err != nil {
				return nil, err
			}
			screen.Outputs().AddHandler(handler)
		default:
			return nil, errors.Errorf("unknown output %q", mode)
		}
	}

	if screen.Outputs().Len() == 0 {
		return nil, errors.New("no outputs configured")
	}
	return screen, nil
}

func logHostInfo() {
	info, err := host.Info()
	if err != nil {
		logging.Debug("Host info unavailable: %v", err)
		return
	}
	logging.Info("Host: %s (%s %s, kernel %s/%s)",
		info.Hostname, info.Platform, info.PlatformVersion, info.KernelVersion, info.KernelArch)
}

func runIndicator(c *cli.Context) error {
	logging.Info("battindicator v%s", Version)
	logHostInfo()

	bg, err := display.ParseColor(c.String("bg"))
	if err != nil {
		return err
	}
	fg, err := display.ParseColor(c.String("color"))
	if err != nil {
		return err
	}

	hw := &hardware{busName: c.String("i2c-bus")}
	defer hw.Close()

	sensor, err := openSensor(c, hw)
	if err != nil {
		return errors.Wrap(err, "sensor")
	}
	screen, err := openScreen(c, hw, bg)
	if err != nil {
		return errors.Wrap(err, "display")
	}
	defer screen.Close()

	battery := indicator.New(screen, sensor)
	battery.SetPosAndSize(c.Int("x"), c.Int("y"), c.Int("scale"))
	battery.SetBackgroundColor(bg)
	battery.SetStyleColor(fg)
	level := indicator.Explicit(c.Int("percent"))

	if err := battery.Show(); err != nil {
		return err
	}

	interval := c.Duration("interval")
	if interval <= 0 {
		interval = RefreshInterval
	}
	logging.Info("Sensor: %s | Outputs: %s | Refresh: %v",
		c.String("sensor"), strings.Join(c.StringSlice("output"), ","), interval)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	redraw := func() error {
		start := time.Now()
		if t, ok := sensor.(ticker); ok {
			t.Tick()
		}
		if err := battery.Update(level); err != nil {
			return err
		}
		if err := screen.Flush(); err != nil {
			logging.Warn("Output failed: %v", err)
		}
		logging.Debug("Cycle: %v", time.Since(start))
		return nil
	}

	if err := redraw(); err != nil {
		return err
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if err := redraw(); err != nil {
				return err
			}
		case <-signalChan:
			logging.Info("Shutdown initiated")
			if err := battery.Hide(); err != nil {
				return err
			}
			return screen.Flush()
		}
	}
}

func runProbe(c *cli.Context) error {
	hw := &hardware{busName: c.String("i2c-bus")}
	defer hw.Close()

	sensor, err := openSensor(c, hw)
	if err != nil {
		return errors.Wrap(err, "sensor")
	}

	probe := indicator.New(nil, sensor)
	fmt.Printf("%-10s %.3f V\n", "voltage", sensor.BatteryVoltage())
	fmt.Printf("%-10s %.1f\n", "current", sensor.BatteryCurrent())
	fmt.Printf("%-10s %t\n", "low", sensor.LowBatteryWarning())
	fmt.Printf("%-10s %d%%\n", "percent", probe.CalcBatteryPercent())
	fmt.Printf("%-10s %s\n", "state", describeColor(probe.FillColor()))
	return nil
}

func describeColor(c color.Color) string {
	switch c {
	case indicator.ColorCritical:
		return "low battery"
	case indicator.ColorCharging:
		return "charging"
	case indicator.ColorNormal:
		return "on battery"
	}
	return "unknown"
}
