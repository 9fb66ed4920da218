// Package entity CRUD for the packages table.
// Implements: prd002-sqlite-backend R12, R14.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/docref/pkg/types"
)

const packageColumns = "package_id, name, doc_id, file, created_at, updated_at"

var packageFilterColumns = map[string]bool{
	"package_id": true,
	"name":       true,
	"file":       true,
}

func (t *table) getPackage(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+packageColumns+" FROM packages WHERE package_id = ?", id)
	return scanPackage(row)
}

func scanPackage(row interface{ Scan(...any) error }) (*types.PackageDecl, error) {
	var p types.PackageDecl
	var docID sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&p.PackageID, &p.Name, &docID, &p.File, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning package: %w", err)
	}
	p.DocID = fromNull(docID)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *table) setPackage(id string, data any) (string, error) {
	p, ok := data.(*types.PackageDecl)
	if !ok {
		return "", types.ErrInvalidData
	}
	if p.Name == "" {
		return "", types.ErrInvalidName
	}

	now := time.Now()
	if id == "" && p.PackageID == "" {
		p.PackageID = newUUID()
	} else if id != "" {
		p.PackageID = id
	}
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	_, err := t.backend.db.Exec(`
		INSERT INTO packages (`+packageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(package_id) DO UPDATE SET
			name = excluded.name,
			doc_id = excluded.doc_id,
			file = excluded.file,
			updated_at = excluded.updated_at`,
		p.PackageID, p.Name, nullable(p.DocID), p.File,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return "", fmt.Errorf("upserting package: %w", err)
	}

	if err := t.persistPackagesJSONL(); err != nil {
		return "", err
	}
	return p.PackageID, nil
}

func (t *table) fetchPackages(filter map[string]any) ([]any, error) {
	where, tail, args, err := buildWhere(filter, packageFilterColumns)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(
		"SELECT "+packageColumns+" FROM packages"+where+" ORDER BY name ASC"+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching packages: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func (t *table) persistPackagesJSONL() error {
	rows, err := t.backend.db.Query(
		"SELECT " + packageColumns + " FROM packages ORDER BY name ASC")
	if err != nil {
		return fmt.Errorf("reading packages for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return err
		}
		rec, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling package: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(t.backend.config.DataDir, "packages.jsonl"), records)
}
