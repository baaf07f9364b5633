package telemetry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

func TestJSONLoggerWritesSessionTaggedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	l, err := NewJSONLogger(path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Info("filter.toggle", map[string]any{"filter": "Kick"})
	l.Error("state.save_failed", map[string]any{"key": "userName"})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e map[string]any
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line is not json: %v", err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["msg"] != "filter.toggle" || entries[0]["filter"] != "Kick" || entries[1]["level"] != "error" {
		t.Fatalf("unexpected entries %v", entries)
	}
	if entries[0]["session"] != l.SessionID() || l.SessionID() == "" {
		t.Fatalf("expected session id on every entry")
	}
}

func TestJSONLoggerMirrorsToHumanLog(t *testing.T) {
	var jsonBuf, human bytes.Buffer
	m := clog.NewWithOptions(&human, clog.Options{Level: clog.DebugLevel})
	l := NewWriterLogger(&jsonBuf).Mirror(m)
	l.Debug("combo.drop", map[string]any{"index": 2})
	if !strings.Contains(human.String(), "combo.drop") {
		t.Fatalf("expected mirrored line, got %q", human.String())
	}
	if !strings.Contains(jsonBuf.String(), `"index":2`) {
		t.Fatalf("expected json line, got %q", jsonBuf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *JSONLogger
	l.Info("x", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
}
