package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = newLogger(os.Stdout, logrus.InfoLevel)

// Options controls where log lines go and how verbose they are.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	NoColor    bool
}

// CustomFormatter provides a clean, standard log format
type CustomFormatter struct {
	NoColor bool
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05")

	var levelColor string
	var levelText string
	switch entry.Level {
	case logrus.InfoLevel:
		levelColor = "\033[36m" // Cyan
		levelText = " INFO"
	case logrus.WarnLevel:
		levelColor = "\033[33m" // Yellow
		levelText = " WARN"
	case logrus.ErrorLevel:
		levelColor = "\033[31m" // Red
		levelText = "ERROR"
	case logrus.DebugLevel:
		levelColor = "\033[37m" // White
		levelText = "DEBUG"
	default:
		levelColor = "\033[0m"
		levelText = strings.ToUpper(entry.Level.String())
	}

	reset := "\033[0m"
	if f.NoColor {
		levelColor, reset = "", ""
	}

	module := "main"
	if moduleField, exists := entry.Data["module"]; exists {
		if moduleStr, ok := moduleField.(string); ok {
			module = moduleStr
		}
	}

	// Format: [LEVEL timestamp] [module] message
	return []byte(fmt.Sprintf("[%s%s%s %s] [%10s] %s\n",
		levelColor, levelText, reset, timestamp, module, entry.Message)), nil
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&CustomFormatter{})
	return l
}

// Init replaces the default stdout logger. A File writes through a rotating
// lumberjack sink in addition to stdout.
func Init(opts Options) error {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
		level = parsed
	}

	var output io.Writer = os.Stdout
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 5
		}
		output = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
		})
	}

	l := newLogger(output, level)
	l.SetFormatter(&CustomFormatter{NoColor: opts.NoColor || opts.File != ""})
	logger = l
	return nil
}

// SetOutput redirects the current logger, mostly for tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func SetLevel(level logrus.Level) {
	logger.SetLevel(level)
}

func logAt(module string, level logrus.Level, msg string, args []interface{}) {
	entry := logger.WithField("module", module)
	if len(args) > 0 {
		entry.Logf(level, msg, args...)
	} else {
		entry.Log(level, msg)
	}
}

func Info(msg string, args ...interface{})  { logAt("main", logrus.InfoLevel, msg, args) }
func Warn(msg string, args ...interface{})  { logAt("main", logrus.WarnLevel, msg, args) }
func Error(msg string, args ...interface{}) { logAt("main", logrus.ErrorLevel, msg, args) }
func Debug(msg string, args ...interface{}) { logAt("main", logrus.DebugLevel, msg, args) }

func Fatal(msg string, args ...interface{}) {
	entry := logger.WithField("module", "main")
	if len(args) > 0 {
		entry.Fatalf(msg, args...)
	} else {
		entry.Fatal(msg)
	}
}

// Module-specific logging functions
func InfoModule(module, msg string, args ...interface{}) {
	logAt(module, logrus.InfoLevel, msg, args)
}

func WarnModule(module, msg string, args ...interface{}) {
	logAt(module, logrus.WarnLevel, msg, args)
}

func ErrorModule(module, msg string, args ...interface{}) {
	logAt(module, logrus.ErrorLevel, msg, args)
}

func DebugModule(module, msg string, args ...interface{}) {
	logAt(module, logrus.DebugLevel, msg, args)
}
