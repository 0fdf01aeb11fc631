// Package telemetry writes the session log as JSON lines, one event per
// line, so a play session can be replayed or debugged after the fact.
package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type Logger struct {
	mu   sync.Mutex
	w    io.WriteCloser
	base map[string]any
}

// New opens the log file at path, truncating any previous session.
func New(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Logger{w: f}, nil
}

// Discard returns a logger that drops everything. Useful as a default
// so callers never nil-check.
func Discard() *Logger {
	return &Logger{w: nopCloser{Writer: io.Discard}}
}

// WithBase attaches fields (session id, player) to every event.
func (l *Logger) WithBase(fields map[string]any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.base == nil {
		l.base = map[string]any{}
	}
	for k, v := range fields {
		l.base[k] = v
	}
	return l
}

func (l *Logger) Info(event string, fields map[string]any) {
	l.log("info", event, fields)
}

func (l *Logger) Error(event string, fields map[string]any) {
	l.log("error", event, fields)
}

func (l *Logger) log(level, event string, fields map[string]any) {
	if l == nil || l.w == nil {
		return
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"event": event,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, _ := json.Marshal(entry)
	_, _ = l.w.Write(append(b, '\n'))
}

func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
