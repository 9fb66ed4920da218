// Reference entity CRUD for the references table (SQL table "refs").
// Implements: prd002-sqlite-backend R12, R14; prd006-reference-resolution R4.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/docref/pkg/types"
)

const refColumns = "ref_id, doc_id, tag, raw, form, package, type, member, params, " +
	"has_params, label, state, target_id, anchor, file, line, created_at, updated_at"

var refFilterColumns = map[string]bool{
	"ref_id": true,
	"doc_id": true,
	"tag":    true,
	"form":   true,
	"state":  true,
	"file":   true,
}

func (t *table) getReference(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+refColumns+" FROM refs WHERE ref_id = ?", id)
	return scanReference(row)
}

func scanReference(row interface{ Scan(...any) error }) (*types.Reference, error) {
	var r types.Reference
	var params, targetID sql.NullString
	var hasParams int
	var createdAt, updatedAt string
	err := row.Scan(&r.RefID, &r.DocID, &r.Tag, &r.Raw, &r.Form,
		&r.Package, &r.Type, &r.Member, &params, &hasParams, &r.Label,
		&r.State, &targetID, &r.Anchor, &r.File, &r.Line, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning reference: %w", err)
	}
	ps, err := decodeStrings(params)
	if err != nil {
		return nil, err
	}
	r.Params = ps
	r.HasParams = hasParams != 0
	r.TargetID = fromNull(targetID)
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (t *table) setReference(id string, data any) (string, error) {
	r, ok := data.(*types.Reference)
	if !ok {
		return "", types.ErrInvalidData
	}
	if !types.IsValidRefTag(r.Tag) {
		return "", types.ErrInvalidTag
	}

	now := time.Now()
	if id == "" && r.RefID == "" {
		r.RefID = newUUID()
		if r.State == "" {
			r.State = types.RefStatePending
		}
	} else if id != "" {
		r.RefID = id
	}
	r.UpdatedAt = now
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}

	params, err := encodeStrings(r.Params)
	if err != nil {
		return "", err
	}

	_, err = t.backend.db.Exec(`
		INSERT INTO refs (`+refColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ref_id) DO UPDATE SET
			doc_id = excluded.doc_id,
			tag = excluded.tag,
			raw = excluded.raw,
			form = excluded.form,
			package = excluded.package,
			type = excluded.type,
			member = excluded.member,
			params = excluded.params,
			has_params = excluded.has_params,
			label = excluded.label,
			state = excluded.state,
			target_id = excluded.target_id,
			anchor = excluded.anchor,
			file = excluded.file,
			line = excluded.line,
			updated_at = excluded.updated_at`,
		r.RefID, r.DocID, r.Tag, r.Raw, r.Form, r.Package, r.Type, r.Member,
		params, boolToInt(r.HasParams), r.Label, r.State, nullable(r.TargetID),
		r.Anchor, r.File, r.Line, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	if err != nil {
		return "", fmt.Errorf("upserting reference: %w", err)
	}

	if err := t.persistReferencesJSONL(); err != nil {
		return "", err
	}
	return r.RefID, nil
}

func (t *table) fetchReferences(filter map[string]any) ([]any, error) {
	where, tail, args, err := buildWhere(filter, refFilterColumns)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(
		"SELECT "+refColumns+" FROM refs"+where+" ORDER BY file ASC, line ASC"+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching references: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		r, err := scanReference(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (t *table) persistReferencesJSONL() error {
	rows, err := t.backend.db.Query(
		"SELECT " + refColumns + " FROM refs ORDER BY file ASC, line ASC")
	if err != nil {
		return fmt.Errorf("reading references for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		r, err := scanReference(rows)
		if err != nil {
			return err
		}
		rec, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling reference: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(t.backend.config.DataDir, "references.jsonl"), records)
}
