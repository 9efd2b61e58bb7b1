package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelLock    LogLevel = "LOCK"
)

// DefaultThrottleWindow is how long a throttled message stays suppressed
// after it was last written.
const DefaultThrottleWindow = time.Hour

// Logger is a leveled logger for protection activity. Repeated diagnostics
// can be rate-limited per key via WarnThrottled so that a protection
// re-evaluated every tick does not flood the log with the same message.
type Logger struct {
	logFile  *os.File
	logger   *log.Logger
	mu       sync.Mutex
	throttle map[string]time.Time
	window   time.Duration
	now      func() time.Time
}

// New creates a logger writing to logs/<name>_<date>.log.
func New(name string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logDir, fmt.Sprintf("%s_%s.log", name, timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := newWithWriter(file)
	l.logFile = file
	return l, nil
}

// NewWithWriter creates a logger writing to an arbitrary writer. Used in
// tests and for console-only runs.
func NewWithWriter(w io.Writer) *Logger {
	return newWithWriter(w)
}

func newWithWriter(w io.Writer) *Logger {
	return &Logger{
		logger:   log.New(w, "", 0),
		throttle: make(map[string]time.Time),
		window:   DefaultThrottleWindow,
		now:      time.Now,
	}
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(level, format, args...)
}

func (l *Logger) write(level LogLevel, format string, args ...interface{}) {
	timestamp := l.now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Lock logs a pair-lock event
func (l *Logger) Lock(format string, args ...interface{}) {
	l.Log(LogLevelLock, format, args...)
}

// WarnThrottled logs a warning at most once per throttle window for the
// given key. Returns true when the message was actually written.
func (l *Logger) WarnThrottled(key, format string, args ...interface{}) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.throttle[key]; ok && now.Sub(last) < l.window {
		return false
	}
	l.throttle[key] = now
	l.write(LogLevelWarning, format, args...)
	return true
}

// SetThrottleWindow overrides the suppression window for throttled messages.
func (l *Logger) SetThrottleWindow(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.window = d
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}
