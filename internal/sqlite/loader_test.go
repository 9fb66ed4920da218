// Tests for JSONL startup loading.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/docref/pkg/types"
)

func TestLoadAllJSONL_LoadsExistingData(t *testing.T) {
	tmpDir := t.TempDir()

	typesLine := `{"type_id":"t1","qualified_name":"com.example.Foo","simple_name":"Foo","package":"com.example","kind":"class","enclosing":null,"extends":null,"implements":["Runnable"],"visibility":"public","doc_id":null,"file":"src/Foo.java","line":1,"created_at":"2026-01-02T03:04:05Z","updated_at":"2026-01-02T03:04:05Z"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "types.jsonl"), []byte(typesLine+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableTypes)
	result, err := tbl.Get("t1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got := result.(*types.TypeDecl)
	if got.QualifiedName != "com.example.Foo" {
		t.Errorf("expected QualifiedName='com.example.Foo', got %q", got.QualifiedName)
	}
	if len(got.Implements) != 1 || got.Implements[0] != "Runnable" {
		t.Errorf("implements not loaded: %v", got.Implements)
	}
}

func TestLoadAllJSONL_ToleratesUnknownFields(t *testing.T) {
	tmpDir := t.TempDir()

	line := `{"package_id":"p1","name":"com.example","doc_id":null,"file":"","created_at":"2026-01-02T03:04:05Z","updated_at":"2026-01-02T03:04:05Z","future_field":"ignored"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "packages.jsonl"), []byte(line+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TablePackages)
	if _, err := tbl.Get("p1"); err != nil {
		t.Errorf("record with unknown fields should load, got %v", err)
	}
}

func TestLoadAllJSONL_SkipsMalformedLines(t *testing.T) {
	tmpDir := t.TempDir()

	content := `{"package_id":"p1","name":"com.example","created_at":"2026-01-02T03:04:05Z","updated_at":"2026-01-02T03:04:05Z"}
garbage line
{"package_id":"p2","name":"com.example.sub","created_at":"2026-01-02T03:04:05Z","updated_at":"2026-01-02T03:04:05Z"}
`
	if err := os.WriteFile(filepath.Join(tmpDir, "packages.jsonl"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TablePackages)
	results, err := tbl.Fetch(nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 packages, got %d", len(results))
	}
}

func TestLoadAllJSONL_DefaultsMissingColumns(t *testing.T) {
	tmpDir := t.TempDir()

	// No "file", "line", or "doc_id" keys at all.
	line := `{"type_id":"t1","qualified_name":"com.example.Bare","simple_name":"Bare","package":"com.example","kind":"class","implements":[],"visibility":"public","created_at":"2026-01-02T03:04:05Z","updated_at":"2026-01-02T03:04:05Z"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "types.jsonl"), []byte(line+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableTypes)
	result, err := tbl.Get("t1")
	if err != nil {
		t.Fatalf("record missing optional keys should load, got %v", err)
	}
	got := result.(*types.TypeDecl)
	if got.File != "" || got.Line != 0 {
		t.Errorf("expected zero file/line defaults, got %q/%d", got.File, got.Line)
	}
	if got.DocID != nil {
		t.Errorf("doc_id should stay nil, got %q", *got.DocID)
	}
}

func TestLoadAllJSONL_BooleanColumns(t *testing.T) {
	tmpDir := t.TempDir()

	line := `{"import_id":"i1","file":"src/Foo.java","path":"java.util.List","on_demand":false,"static":true,"created_at":"2026-01-02T03:04:05Z"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "imports.jsonl"), []byte(line+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableImports)
	result, err := tbl.Get("i1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got := result.(*types.ImportDecl)
	if got.OnDemand {
		t.Error("on_demand should load as false")
	}
	if !got.Static {
		t.Error("static should load as true")
	}
}
