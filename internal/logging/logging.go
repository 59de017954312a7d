// Package logging writes structured JSON log lines, one object per event.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
	loc *time.Location
}

// New returns a Logger writing to w with timestamps in loc. A nil loc means UTC.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{out: w, loc: loc}
}

// Stdout is a convenience for New(os.Stdout, loc).
func Stdout(loc *time.Location) *Logger {
	return New(os.Stdout, loc)
}

// Discard drops everything; handy in tests.
func Discard() *Logger {
	return New(io.Discard, time.UTC)
}

func (l *Logger) Info(msg string, fields map[string]any)  { l.Log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { l.Log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { l.Log(LevelError, msg, fields) }

// Log writes a single entry. "ts", "level" and "msg" are set unless fields already carry them.
func (l *Logger) Log(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		entry[k] = v
	}
	if _, ok := entry["ts"]; !ok {
		entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	}
	if _, ok := entry["level"]; !ok {
		entry["level"] = level
	}
	if _, ok := entry["msg"]; !ok && msg != "" {
		entry["msg"] = msg
	}

	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"level": LevelError, "msg": "log_marshal_failed", "error": err.Error()})
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(b)
}
