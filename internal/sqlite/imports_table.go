// ImportDecl entity CRUD for the imports table.
// Implements: prd002-sqlite-backend R12, R14.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/docref/pkg/types"
)

const importColumns = "import_id, file, path, on_demand, static, created_at"

var importFilterColumns = map[string]bool{
	"import_id": true,
	"file":      true,
	"path":      true,
	"on_demand": true,
	"static":    true,
}

func (t *table) getImport(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+importColumns+" FROM imports WHERE import_id = ?", id)
	return scanImport(row)
}

func scanImport(row interface{ Scan(...any) error }) (*types.ImportDecl, error) {
	var im types.ImportDecl
	var onDemand, static int
	var createdAt string
	err := row.Scan(&im.ImportID, &im.File, &im.Path, &onDemand, &static, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning import: %w", err)
	}
	im.OnDemand = onDemand != 0
	im.Static = static != 0
	if im.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &im, nil
}

func (t *table) setImport(id string, data any) (string, error) {
	im, ok := data.(*types.ImportDecl)
	if !ok {
		return "", types.ErrInvalidData
	}
	if im.File == "" || im.Path == "" {
		return "", types.ErrInvalidName
	}

	if id == "" && im.ImportID == "" {
		im.ImportID = newUUID()
	} else if id != "" {
		im.ImportID = id
	}
	if im.CreatedAt.IsZero() {
		im.CreatedAt = time.Now()
	}

	_, err := t.backend.db.Exec(`
		INSERT INTO imports (`+importColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(import_id) DO UPDATE SET
			file = excluded.file,
			path = excluded.path,
			on_demand = excluded.on_demand,
			static = excluded.static`,
		im.ImportID, im.File, im.Path, boolToInt(im.OnDemand), boolToInt(im.Static),
		formatTime(im.CreatedAt))
	if err != nil {
		return "", fmt.Errorf("upserting import: %w", err)
	}

	if err := t.persistImportsJSONL(); err != nil {
		return "", err
	}
	return im.ImportID, nil
}

func (t *table) fetchImports(filter map[string]any) ([]any, error) {
	where, tail, args, err := buildWhere(filter, importFilterColumns)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(
		"SELECT "+importColumns+" FROM imports"+where+" ORDER BY file ASC, path ASC"+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching imports: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		im, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, im)
	}
	return results, rows.Err()
}

func (t *table) persistImportsJSONL() error {
	rows, err := t.backend.db.Query(
		"SELECT " + importColumns + " FROM imports ORDER BY file ASC, path ASC")
	if err != nil {
		return fmt.Errorf("reading imports for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		im, err := scanImport(rows)
		if err != nil {
			return err
		}
		rec, err := json.Marshal(im)
		if err != nil {
			return fmt.Errorf("marshaling import: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(t.backend.config.DataDir, "imports.jsonl"), records)
}
