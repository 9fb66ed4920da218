// Tests for JSONL read/write helpers.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadJSONL_SkipsMalformedLines(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.jsonl")

	content := `{"id": "1", "name": "valid"}
not json at all
{"id": "2", "name": "also valid"}

{"id": "3", "truncated":`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	records, err := readJSONL(path)
	if err != nil {
		t.Fatalf("readJSONL failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 valid records, got %d", len(records))
	}
}

func TestReadJSONL_MissingFile(t *testing.T) {
	_, err := readJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteJSONL_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.jsonl")

	records := []json.RawMessage{
		json.RawMessage(`{"id":"1"}`),
		json.RawMessage(`{"id":"2"}`),
	}
	if err := writeJSONL(path, records); err != nil {
		t.Fatalf("writeJSONL failed: %v", err)
	}

	got, err := readJSONL(path)
	if err != nil {
		t.Fatalf("readJSONL failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if string(got[0]) != `{"id":"1"}` {
		t.Errorf("record 0 mismatch: %s", got[0])
	}
}

func TestWriteJSONL_ReplacesExisting(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.jsonl")

	if err := writeJSONL(path, []json.RawMessage{json.RawMessage(`{"old":true}`)}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := writeJSONL(path, []json.RawMessage{json.RawMessage(`{"new":true}`)}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if strings.Contains(string(data), "old") {
		t.Error("old content should be replaced")
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(tmpDir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".jsonl-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestWriteJSONL_EmptyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")

	if err := writeJSONL(path, nil); err != nil {
		t.Fatalf("writeJSONL failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty file, got %d bytes", len(data))
	}
}
