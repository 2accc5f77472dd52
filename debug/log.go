package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	file   *os.File
	active atomic.Pointer[logrus.Logger]

	countersMu sync.Mutex
	counters   = make(map[string]int)
)

func init() {
	active.Store(discard())
}

func discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// DefaultPath is ~/.config/fungus/debug.log
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fungus", "debug.log"), nil
}

// Enable starts debug logging to ~/.config/fungus/debug.log
func Enable() error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return EnableFile(path, "debug")
}

// EnableFile starts logging at level ("debug", "info", "warn", "error")
// to path, truncating it. The directory is created if needed.
func EnableFile(path, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = f
	l := newLogger(f, lvl)
	active.Store(l)
	l.WithField("cat", "debug").Info("=== Debug logging started ===")
	return nil
}

// SetOutput logs to w instead of a file (headless mode, tests)
func SetOutput(w io.Writer, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	active.Store(newLogger(w, lvl))
	return nil
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	active.Store(discard())
}

func entry(category string) *logrus.Entry {
	return active.Load().WithField("cat", category)
}

// Log writes a debug message
func Log(category, format string, args ...any) {
	l := active.Load()
	if !l.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	l.WithField("cat", category).Debugf(format, args...)
}

func Info(category, format string, args ...any) {
	entry(category).Infof(format, args...)
}

func Warn(category, format string, args ...any) {
	entry(category).Warnf(format, args...)
}

func Error(category, format string, args ...any) {
	entry(category).Errorf(format, args...)
}

// LogEvery logs only every N calls (use for high-frequency events)
func LogEvery(n int, category, format string, args ...any) {
	countersMu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	countersMu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
