package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents logging levels
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger writes one JSON object per line
type Logger struct {
	level  Level
	logger *log.Logger
	base   Fields
}

var (
	mu            sync.RWMutex
	defaultLogger = New(INFO)
)

// New creates a logger writing to stdout
func New(level Level) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(level Level, w io.Writer) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(w, "", 0),
	}
}

// NewFromString creates a logger from a level string
func NewFromString(levelStr string) *Logger {
	return New(ParseLevel(levelStr))
}

// SetDefault replaces the package-level logger
func SetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// Default returns the package-level logger
func Default() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{
		level:  l.level,
		logger: l.logger,
		base:   mergeFields(l.base, fields),
	}
}

// WithContext returns a logger carrying the request ID stored in ctx, if any
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if id := RequestID(ctx); id != "" {
		return l.With(Fields{"request_id": id})
	}
	return l
}

type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *Logger) log(level Level, msg string, fields Fields) {
	if level < l.level {
		return
	}

	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   msg,
		Fields:    mergeFields(l.base, fields),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("[%s] %s %v", level.String(), msg, entry.Fields)
		return
	}

	l.logger.Println(string(data))
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(DEBUG, msg, mergeFields(fields...))
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(INFO, msg, mergeFields(fields...))
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log(WARN, msg, mergeFields(fields...))
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Fields) {
	l.log(ERROR, msg, mergeFields(fields...))
}

func mergeFields(fields ...Fields) Fields {
	n := 0
	for _, f := range fields {
		n += len(f)
	}
	if n == 0 {
		return nil
	}
	result := make(Fields, n)
	for _, f := range fields {
		for k, v := range f {
			result[k] = v
		}
	}
	return result
}

type ctxKey struct{}

// ContextWithRequestID stores a request ID for downstream log entries
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request ID stored in ctx, or ""
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Timed logs the duration of an outbound operation. Usage:
//
//	defer logger.Timed(ctx, "osrm.route")(&err)
func Timed(ctx context.Context, op string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		fields := Fields{
			"op":     op,
			"dur_ms": time.Since(start).Milliseconds(),
		}
		l := Default().WithContext(ctx)
		if errp != nil && *errp != nil {
			fields["error"] = (*errp).Error()
			l.Warn("outbound call failed", fields)
			return
		}
		l.Debug("outbound call", fields)
	}
}

// Debug logs a debug message using the default logger
func Debug(msg string, fields ...Fields) {
	Default().Debug(msg, fields...)
}

// Info logs an info message using the default logger
func Info(msg string, fields ...Fields) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message using the default logger
func Warn(msg string, fields ...Fields) {
	Default().Warn(msg, fields...)
}

// Error logs an error message using the default logger
func Error(msg string, fields ...Fields) {
	Default().Error(msg, fields...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	Default().Error(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message
func Infof(format string, args ...interface{}) {
	Default().Info(fmt.Sprintf(format, args...))
}
