package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// JSONLogger appends one JSON object per event. Every entry carries the
// session id so several runs can share a file.
type JSONLogger struct {
	mu      sync.Mutex
	w       io.WriteCloser
	session string
	mirror  *clog.Logger
}

func NewJSONLogger(path string) (*JSONLogger, error) {
	l := &JSONLogger{session: uuid.NewString()}
	if path == "" {
		l.w = nopCloser{Writer: io.Discard}
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	l.w = f
	return l, nil
}

// NewWriterLogger logs to w, for tests and pipes.
func NewWriterLogger(w io.Writer) *JSONLogger {
	return &JSONLogger{w: nopCloser{Writer: w}, session: uuid.NewString()}
}

// Mirror also sends every event to a human-readable logger.
func (l *JSONLogger) Mirror(m *clog.Logger) *JSONLogger {
	l.mirror = m
	return l
}

func (l *JSONLogger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.session
}

func (l *JSONLogger) Debug(msg string, fields map[string]any) {
	l.log("debug", msg, fields)
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log("info", msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log("error", msg, fields)
}

func (l *JSONLogger) log(level, msg string, fields map[string]any) {
	if l == nil || l.w == nil {
		return
	}
	entry := map[string]any{
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"level":   level,
		"msg":     msg,
		"session": l.session,
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, _ := json.Marshal(entry)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
	if l.mirror != nil {
		l.mirror.Log(mirrorLevel(level), msg, keyvals(fields)...)
	}
}

func mirrorLevel(level string) clog.Level {
	switch level {
	case "error":
		return clog.ErrorLevel
	case "info":
		return clog.InfoLevel
	default:
		return clog.DebugLevel
	}
}

func keyvals(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
