package telemetry

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	l, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	l.WithBase(map[string]any{"session": "s1"})
	l.Info("app.start", map[string]any{"player": "wanderer"})
	l.Error("journal.record_failed", map[string]any{"error": "disk full"})
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("line is not JSON: %v", err)
		}
		entries = append(entries, entry)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["event"] != "app.start" || entries[0]["session"] != "s1" {
		t.Fatalf("unexpected first entry: %v", entries[0])
	}
	if entries[1]["level"] != "error" || entries[1]["error"] != "disk full" {
		t.Fatalf("unexpected second entry: %v", entries[1])
	}
}

func TestDiscardLoggerIsSafe(t *testing.T) {
	l := Discard()
	l.Info("noop", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	var nilLogger *Logger
	nilLogger.Info("still fine", nil)
}
