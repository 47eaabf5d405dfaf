package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelOff
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogLevelDebug, nil
	case "INFO":
		return LogLevelInfo, nil
	case "WARN", "WARNING":
		return LogLevelWarn, nil
	case "ERROR":
		return LogLevelError, nil
	case "OFF", "NONE":
		return LogLevelOff, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// Logger interface for leveled logging
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// DefaultLogger writes "[LEVEL] message" lines through a log.Logger.  Level
// tags are colored when the output is a terminal.
type DefaultLogger struct {
	level  LogLevel
	logger *log.Logger
	tags   map[LogLevel]string
	mu     sync.RWMutex
}

var levelColors = map[LogLevel]color.Attribute{
	LogLevelDebug: color.FgCyan,
	LogLevelInfo:  color.FgGreen,
	LogLevelWarn:  color.FgYellow,
	LogLevelError: color.FgRed,
}

// NewLogger creates a new logger instance
func NewLogger(output io.Writer, level LogLevel) *DefaultLogger {
	tty := false
	if f, ok := output.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd())
	}
	tags := map[LogLevel]string{}
	for lvl, attr := range levelColors {
		c := color.New(attr, color.Bold)
		if tty {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		tags[lvl] = c.Sprintf("[%s]", lvl)
	}
	return &DefaultLogger{
		level:  level,
		logger: log.New(output, "", log.LstdFlags),
		tags:   tags,
	}
}

func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *DefaultLogger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *DefaultLogger) log(level LogLevel, format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if level < l.level {
		return
	}
	l.logger.Printf("%s %s", l.tags[level], fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debug(format string, args ...any) { l.log(LogLevelDebug, format, args...) }
func (l *DefaultLogger) Info(format string, args ...any)  { l.log(LogLevelInfo, format, args...) }
func (l *DefaultLogger) Warn(format string, args ...any)  { l.log(LogLevelWarn, format, args...) }
func (l *DefaultLogger) Error(format string, args ...any) { l.log(LogLevelError, format, args...) }

// PrefixLogger prepends a fixed prefix (a run id, say) to every message of
// another logger.
type PrefixLogger struct {
	Logger
	Prefix string
}

func WithPrefix(l Logger, prefix string) *PrefixLogger {
	return &PrefixLogger{Logger: l, Prefix: prefix}
}

func (p *PrefixLogger) Debug(format string, args ...any) {
	p.Logger.Debug(p.Prefix+" "+format, args...)
}

func (p *PrefixLogger) Info(format string, args ...any) {
	p.Logger.Info(p.Prefix+" "+format, args...)
}

func (p *PrefixLogger) Warn(format string, args ...any) {
	p.Logger.Warn(p.Prefix+" "+format, args...)
}

func (p *PrefixLogger) Error(format string, args ...any) {
	p.Logger.Error(p.Prefix+" "+format, args...)
}

// Global logger instance
var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewLogger(os.Stderr, LogLevelInfo)
)

// Global returns the package logger.  Callers that keep a reference stop
// seeing replacements made by SetLogger.
func Global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetLogger replaces the package logger and returns the previous one.
func SetLogger(l Logger) Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	old := globalLogger
	globalLogger = l
	return old
}

func SetLogLevel(level LogLevel) { Global().SetLevel(level) }
func GetLogLevel() LogLevel      { return Global().GetLevel() }

func Debug(format string, args ...any) { Global().Debug(format, args...) }
func Info(format string, args ...any)  { Global().Info(format, args...) }
func Warn(format string, args ...any)  { Global().Warn(format, args...) }
func Error(format string, args ...any) { Global().Error(format, args...) }

func init() {
	if levelStr := os.Getenv("BETLANG_LOG_LEVEL"); levelStr != "" {
		if level, err := ParseLogLevel(levelStr); err == nil {
			SetLogLevel(level)
		}
	}

	// In test mode, default to ERROR level only
	if strings.HasSuffix(os.Args[0], ".test") {
		SetLogLevel(LogLevelError)
	}
}
