// Diagnostic entity CRUD for the diagnostics table.
// Implements: prd002-sqlite-backend R12, R14; prd007-style-checks R1.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/docref/pkg/types"
)

const diagnosticColumns = "diag_id, rule, severity, file, line, message, subject_id, created_at"

var diagnosticFilterColumns = map[string]bool{
	"diag_id":  true,
	"rule":     true,
	"severity": true,
	"file":     true,
}

func (t *table) getDiagnostic(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+diagnosticColumns+" FROM diagnostics WHERE diag_id = ?", id)
	return scanDiagnostic(row)
}

func scanDiagnostic(row interface{ Scan(...any) error }) (*types.Diagnostic, error) {
	var d types.Diagnostic
	var subjectID sql.NullString
	var createdAt string
	err := row.Scan(&d.DiagID, &d.Rule, &d.Severity, &d.File, &d.Line, &d.Message, &subjectID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning diagnostic: %w", err)
	}
	d.SubjectID = fromNull(subjectID)
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (t *table) setDiagnostic(id string, data any) (string, error) {
	d, ok := data.(*types.Diagnostic)
	if !ok {
		return "", types.ErrInvalidData
	}
	if d.Rule == "" {
		return "", types.ErrInvalidName
	}
	if !types.IsValidSeverity(d.Severity) {
		return "", types.ErrInvalidSeverity
	}

	if id == "" && d.DiagID == "" {
		d.DiagID = newUUID()
	} else if id != "" {
		d.DiagID = id
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	_, err := t.backend.db.Exec(`
		INSERT INTO diagnostics (`+diagnosticColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(diag_id) DO UPDATE SET
			rule = excluded.rule,
			severity = excluded.severity,
			file = excluded.file,
			line = excluded.line,
			message = excluded.message,
			subject_id = excluded.subject_id`,
		d.DiagID, d.Rule, d.Severity, d.File, d.Line, d.Message,
		nullable(d.SubjectID), formatTime(d.CreatedAt))
	if err != nil {
		return "", fmt.Errorf("upserting diagnostic: %w", err)
	}

	if err := t.persistDiagnosticsJSONL(); err != nil {
		return "", err
	}
	return d.DiagID, nil
}

func (t *table) fetchDiagnostics(filter map[string]any) ([]any, error) {
	where, tail, args, err := buildWhere(filter, diagnosticFilterColumns)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(
		"SELECT "+diagnosticColumns+" FROM diagnostics"+where+" ORDER BY file ASC, line ASC, rule ASC"+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching diagnostics: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		d, err := scanDiagnostic(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

func (t *table) persistDiagnosticsJSONL() error {
	rows, err := t.backend.db.Query(
		"SELECT " + diagnosticColumns + " FROM diagnostics ORDER BY file ASC, line ASC, rule ASC")
	if err != nil {
		return fmt.Errorf("reading diagnostics for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		d, err := scanDiagnostic(rows)
		if err != nil {
			return err
		}
		rec, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshaling diagnostic: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(t.backend.config.DataDir, "diagnostics.jsonl"), records)
}
