package main

import (
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"battindicator/internal/logging"
)

var (
	Version   = "unknown"
	BuildTime = "unknown"
)

const (
	RefreshInterval = 1 * time.Second
	envPrefix       = "BATTINDICATOR_"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		logging.Fatal("%v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "battindicator",
		Usage:   "draw a battery gauge on a small display",
		Version: Version + " (" + BuildTime + ")",
		Flags:   append(commonFlags(), displayFlags()...),
		Before:  initLogging,
		Action:  runIndicator,
		Commands: []*cli.Command{
			{
				Name:   "probe",
				Usage:  "print one sensor reading and exit",
				Action: runProbe,
			},
		},
	}
}

func env(name string) []string {
	return []string{envPrefix + name}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "sensor",
			Value:   "sim",
			Usage:   "battery source: axp192, host or sim",
			EnvVars: env("SENSOR"),
		},
		&cli.StringFlag{
			Name:    "i2c-bus",
			Usage:   "I2C bus for axp192 and ssd1306 (empty picks the first)",
			EnvVars: env("I2C_BUS"),
		},
		&cli.IntFlag{
			Name:  "battery-index",
			Usage: "host battery to read when --sensor=host",
		},
		&cli.Float64Flag{
			Name:  "sim-step",
			Value: 0.02,
			Usage: "volts the simulated cell moves per tick",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "debug, info, warn or error",
			EnvVars: env("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "also log to this file, rotated by size",
			EnvVars: env("LOG_FILE"),
		},
	}
}

func displayFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "output",
			Value:   cli.NewStringSlice("file"),
			Usage:   "frame sinks: file, ax206usb, ssd1306 (repeatable)",
			EnvVars: env("OUTPUT"),
		},
		&cli.StringFlag{
			Name:  "output-file",
			Value: "battery.png",
			Usage: "PNG path for the file output",
		},
		&cli.IntFlag{Name: "width", Value: 240, Usage: "screen width in pixels"},
		&cli.IntFlag{Name: "height", Value: 135, Usage: "screen height in pixels"},
		&cli.IntFlag{Name: "x", Value: 4, Usage: "indicator left edge"},
		&cli.IntFlag{Name: "y", Value: 4, Usage: "indicator top edge"},
		&cli.IntFlag{Name: "scale", Value: 2, Usage: "indicator scale, 1 to 7"},
		&cli.StringFlag{Name: "bg", Value: "#000000", Usage: "background color"},
		&cli.StringFlag{Name: "color", Value: "#ffffff", Usage: "outline and text color"},
		&cli.DurationFlag{
			Name:    "interval",
			Value:   RefreshInterval,
			Usage:   "redraw period",
			EnvVars: env("INTERVAL"),
		},
		&cli.IntFlag{
			Name:  "percent",
			Value: -1,
			Usage: "show this level instead of reading the sensor (negative reads the sensor)",
		},
		&cli.IntFlag{
			Name:  "canvas-budget",
			Usage: "bytes available to offscreen canvases, 0 for unlimited",
		},
		&cli.IntFlag{
			Name:  "brightness",
			Value: 7,
			Usage: "ax206usb backlight level, 0 to 7",
		},
	}
}

func initLogging(c *cli.Context) error {
	return logging.Init(logging.Options{
		Level:      c.String("log-level"),
		File:       c.String("log-file"),
		MaxBackups: 3,
	})
}
