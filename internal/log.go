package internal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLogLevel maps the --log-level flag values to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARNING":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// Logger writes timestamped lines to a log file and mirrors them to the
// console. Safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	f       *os.File
	console io.Writer
}

func NewLogger(path string, level LogLevel) (*Logger, error) {
	l := &Logger{level: level, console: os.Stderr}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		l.f = f
	}
	return l, nil
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	line := fmt.Sprintf("%s - %s - %s\n",
		time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f != nil {
		l.f.WriteString(line)
	}
	if l.console != nil {
		io.WriteString(l.console, line)
	}
}

func (l *Logger) Debug(format string, args ...interface{})   { l.logf(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})    { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warning(format string, args ...interface{}) { l.logf(LevelWarning, format, args...) }
func (l *Logger) Error(format string, args ...interface{})   { l.logf(LevelError, format, args...) }

func (l *Logger) Close() error {
	if l.f != nil {
		return l.f.Close()
	}
	return nil
}
