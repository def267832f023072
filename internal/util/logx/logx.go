// Package logx is the process-wide leveled logger. Lines are kept in a small
// in-memory ring so the TUI can show them; stderr output is opt-in because
// writing there while the alt screen is active corrupts the display.
package logx

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var (
	mu       sync.Mutex
	buf      = make([]string, 0, 500)
	maxLines = 500
	toStderr = false
	logger   = newLogger(Info)
)

// ringWriter feeds formatted log output into buf, one entry per line.
type ringWriter struct{}

func (ringWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		if len(buf) >= maxLines {
			// drop oldest
			copy(buf[0:], buf[1:])
			buf = buf[:len(buf)-1]
		}
		buf = append(buf, string(line))
	}
	if toStderr {
		_, _ = os.Stderr.Write(p)
	}
	return len(p), nil
}

func newLogger(l Level) *log.Logger {
	return log.NewWithOptions(io.Writer(ringWriter{}), log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
		Level:           toCharm(l),
	})
}

func toCharm(l Level) log.Level {
	switch l {
	case Debug:
		return log.DebugLevel
	case Warn:
		return log.WarnLevel
	case Error:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetLevel(toCharm(l))
}

func SetLevelFromEnv() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PODINSIGHTS_LOG_LEVEL"))) {
	case "debug":
		SetLevel(Debug)
	case "info":
		SetLevel(Info)
	case "warn", "warning":
		SetLevel(Warn)
	case "error":
		SetLevel(Error)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("PODINSIGHTS_LOG_STDERR"))); v != "" {
		mu.Lock()
		toStderr = v != "0" && v != "false" && v != "no"
		mu.Unlock()
	}
}

func Debugf(format string, a ...any) { logf(Debug, format, a...) }
func Infof(format string, a ...any)  { logf(Info, format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, format, a...) }
func Errorf(format string, a ...any) { logf(Error, format, a...) }

func logf(l Level, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	switch l {
	case Debug:
		logger.Debugf(format, a...)
	case Info:
		logger.Infof(format, a...)
	case Warn:
		logger.Warnf(format, a...)
	default:
		logger.Errorf(format, a...)
	}
}

// Since returns a compact duration for log lines ("1.2s", "350ms").
func Since(t time.Time) string {
	return time.Since(t).Round(time.Millisecond).String()
}

func Dump() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Join(buf, "\n")
}

func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Reset clears the ring. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	buf = buf[:0]
}
