// TypeDecl entity CRUD for the types table.
// Implements: prd002-sqlite-backend R12, R14.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/docref/pkg/types"
)

const typeColumns = "type_id, qualified_name, simple_name, package, kind, " +
	"enclosing, extends, implements, visibility, doc_id, file, line, created_at, updated_at"

var typeFilterColumns = map[string]bool{
	"type_id":        true,
	"qualified_name": true,
	"simple_name":    true,
	"package":        true,
	"kind":           true,
	"visibility":     true,
	"file":           true,
}

func (t *table) getType(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+typeColumns+" FROM types WHERE type_id = ?", id)
	return scanType(row)
}

func scanType(row interface{ Scan(...any) error }) (*types.TypeDecl, error) {
	var d types.TypeDecl
	var enclosing, extends, docID sql.NullString
	var implementsJSON string
	var createdAt, updatedAt string
	err := row.Scan(&d.TypeID, &d.QualifiedName, &d.SimpleName, &d.Package, &d.Kind,
		&enclosing, &extends, &implementsJSON, &d.Visibility, &docID,
		&d.File, &d.Line, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning type: %w", err)
	}
	d.Enclosing = fromNull(enclosing)
	d.Extends = fromNull(extends)
	d.DocID = fromNull(docID)
	impl, err := decodeStrings(sql.NullString{String: implementsJSON, Valid: true})
	if err != nil {
		return nil, err
	}
	d.Implements = impl
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (t *table) setType(id string, data any) (string, error) {
	d, ok := data.(*types.TypeDecl)
	if !ok {
		return "", types.ErrInvalidData
	}
	if d.QualifiedName == "" || d.SimpleName == "" {
		return "", types.ErrInvalidName
	}
	if !types.IsValidTypeKind(d.Kind) {
		return "", types.ErrInvalidKind
	}

	now := time.Now()
	if id == "" && d.TypeID == "" {
		d.TypeID = newUUID()
	} else if id != "" {
		d.TypeID = id
	}
	d.UpdatedAt = now
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.Implements == nil {
		d.Implements = []string{}
	}

	implements, err := encodeStrings(d.Implements)
	if err != nil {
		return "", err
	}

	_, err = t.backend.db.Exec(`
		INSERT INTO types (`+typeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(type_id) DO UPDATE SET
			qualified_name = excluded.qualified_name,
			simple_name = excluded.simple_name,
			package = excluded.package,
			kind = excluded.kind,
			enclosing = excluded.enclosing,
			extends = excluded.extends,
			implements = excluded.implements,
			visibility = excluded.visibility,
			doc_id = excluded.doc_id,
			file = excluded.file,
			line = excluded.line,
			updated_at = excluded.updated_at`,
		d.TypeID, d.QualifiedName, d.SimpleName, d.Package, d.Kind,
		nullable(d.Enclosing), nullable(d.Extends), implements, d.Visibility,
		nullable(d.DocID), d.File, d.Line,
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return "", fmt.Errorf("upserting type: %w", err)
	}

	if err := t.persistTypesJSONL(); err != nil {
		return "", err
	}
	return d.TypeID, nil
}

func (t *table) fetchTypes(filter map[string]any) ([]any, error) {
	where, tail, args, err := buildWhere(filter, typeFilterColumns)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(
		"SELECT "+typeColumns+" FROM types"+where+" ORDER BY qualified_name ASC"+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching types: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		d, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

func (t *table) persistTypesJSONL() error {
	rows, err := t.backend.db.Query(
		"SELECT " + typeColumns + " FROM types ORDER BY qualified_name ASC")
	if err != nil {
		return fmt.Errorf("reading types for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		d, err := scanType(rows)
		if err != nil {
			return err
		}
		rec, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshaling type: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(t.backend.config.DataDir, "types.jsonl"), records)
}
