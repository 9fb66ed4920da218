// JSONL loading for startup.
// Implements: prd002-sqlite-backend R4 (startup sequence), R4.2 (malformed lines),
//
//	R4.4 (transactional loading), R7.2 (unknown field tolerance).
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// jsonlTableMapping maps JSONL filenames to their SQLite tables and column
// lists. JSON field names match column names, so records load positionally.
// nullable marks the columns that may bind SQL NULL; a missing value for
// any other column defaults to the column type's zero instead.
var jsonlTableMapping = []struct {
	file     string
	table    string
	columns  []string
	nullable map[string]bool
}{
	{"packages.jsonl", "packages", []string{
		"package_id", "name", "doc_id", "file", "created_at", "updated_at"},
		map[string]bool{"doc_id": true}},
	{"types.jsonl", "types", []string{
		"type_id", "qualified_name", "simple_name", "package", "kind",
		"enclosing", "extends", "implements", "visibility", "doc_id",
		"file", "line", "created_at", "updated_at"},
		map[string]bool{"enclosing": true, "extends": true, "doc_id": true}},
	{"members.jsonl", "members", []string{
		"member_id", "owner", "name", "kind", "params", "param_names",
		"return_type", "visibility", "static", "final", "doc_id", "file",
		"line", "created_at", "updated_at"},
		map[string]bool{"params": true, "param_names": true, "return_type": true, "doc_id": true}},
	{"comments.jsonl", "comments", []string{
		"doc_id", "owner_kind", "owner_id", "text", "file", "line",
		"created_at", "updated_at"},
		map[string]bool{}},
	{"imports.jsonl", "imports", []string{
		"import_id", "file", "path", "on_demand", "static", "created_at"},
		map[string]bool{}},
	{"references.jsonl", "refs", []string{
		"ref_id", "doc_id", "tag", "raw", "form", "package", "type", "member",
		"params", "has_params", "label", "state", "target_id", "anchor",
		"file", "line", "created_at", "updated_at"},
		map[string]bool{"params": true, "target_id": true}},
	{"diagnostics.jsonl", "diagnostics", []string{
		"diag_id", "rule", "severity", "file", "line", "message",
		"subject_id", "created_at"},
		map[string]bool{"subject_id": true}},
}

// integerColumns names the NOT NULL INTEGER columns across all tables;
// everything else NOT NULL is TEXT.
var integerColumns = map[string]bool{
	"line":       true,
	"has_params": true,
	"static":     true,
	"final":      true,
	"on_demand":  true,
}

// loadAllJSONL reads each JSONL file from dataDir and inserts records into
// the corresponding SQLite tables. Loading is transactional: all succeed or
// the database remains empty (prd002-sqlite-backend R4.4). Malformed lines
// are skipped per R4.2. Unknown fields in JSONL records are silently
// ignored, enabling forward compatibility across generations (R7.2).
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(dataDir, mapping.file)
		records, err := readJSONL(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}

		if len(records) == 0 {
			continue
		}

		if err := insertRecords(tx, mapping.table, mapping.columns, mapping.nullable, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}

	return nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only the
// columns listed in the mapping are extracted; extra fields from future
// generations do not cause errors (prd002-sqlite-backend R7.2). Array
// values (params, implements) are re-serialized as JSON text; booleans
// become 0/1 to match the INTEGER columns. A missing value for a NOT NULL
// column binds the column type's zero, so a sparse record still loads;
// only unparseable lines are skipped (R4.2), and insert failures abort
// the load rather than dropping records.
func insertRecords(tx *sql.Tx, table string, columns []string, nullable map[string]bool, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			// Skip malformed records (prd002-sqlite-backend R4.2).
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			val, ok := obj[col]
			if !ok || val == nil {
				switch {
				case nullable[col]:
					args[i] = nil
				case integerColumns[col]:
					args[i] = 0
				default:
					args[i] = ""
				}
				continue
			}
			switch v := val.(type) {
			case map[string]any, []any:
				b, err := json.Marshal(v)
				if err != nil {
					args[i] = nil
					continue
				}
				args[i] = string(b)
			case bool:
				args[i] = boolToInt(v)
			default:
				args[i] = val
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}

	return nil
}
