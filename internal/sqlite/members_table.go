// MemberDecl entity CRUD for the members table.
// Implements: prd002-sqlite-backend R12, R14.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/docref/pkg/types"
)

const memberColumns = "member_id, owner, name, kind, params, param_names, " +
	"return_type, visibility, static, final, doc_id, file, line, created_at, updated_at"

var memberFilterColumns = map[string]bool{
	"member_id":  true,
	"owner":      true,
	"name":       true,
	"kind":       true,
	"visibility": true,
	"file":       true,
}

func (t *table) getMember(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+memberColumns+" FROM members WHERE member_id = ?", id)
	return scanMember(row)
}

func scanMember(row interface{ Scan(...any) error }) (*types.MemberDecl, error) {
	var m types.MemberDecl
	var params, paramNames, returnType, docID sql.NullString
	var static, final int
	var createdAt, updatedAt string
	err := row.Scan(&m.MemberID, &m.Owner, &m.Name, &m.Kind, &params, &paramNames,
		&returnType, &m.Visibility, &static, &final, &docID, &m.File, &m.Line,
		&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning member: %w", err)
	}
	ps, err := decodeStrings(params)
	if err != nil {
		return nil, err
	}
	m.Params = ps
	ns, err := decodeStrings(paramNames)
	if err != nil {
		return nil, err
	}
	m.ParamNames = ns
	if returnType.Valid {
		m.ReturnType = returnType.String
	}
	m.Static = static != 0
	m.Final = final != 0
	m.DocID = fromNull(docID)
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (t *table) setMember(id string, data any) (string, error) {
	m, ok := data.(*types.MemberDecl)
	if !ok {
		return "", types.ErrInvalidData
	}
	if m.Owner == "" || m.Name == "" {
		return "", types.ErrInvalidName
	}
	if !types.IsValidMemberKind(m.Kind) {
		return "", types.ErrInvalidKind
	}

	now := time.Now()
	if id == "" && m.MemberID == "" {
		m.MemberID = newUUID()
	} else if id != "" {
		m.MemberID = id
	}
	m.UpdatedAt = now
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	params, err := encodeStrings(m.Params)
	if err != nil {
		return "", err
	}
	paramNames, err := encodeStrings(m.ParamNames)
	if err != nil {
		return "", err
	}

	_, err = t.backend.db.Exec(`
		INSERT INTO members (`+memberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(member_id) DO UPDATE SET
			owner = excluded.owner,
			name = excluded.name,
			kind = excluded.kind,
			params = excluded.params,
			param_names = excluded.param_names,
			return_type = excluded.return_type,
			visibility = excluded.visibility,
			static = excluded.static,
			final = excluded.final,
			doc_id = excluded.doc_id,
			file = excluded.file,
			line = excluded.line,
			updated_at = excluded.updated_at`,
		m.MemberID, m.Owner, m.Name, m.Kind, params, paramNames, m.ReturnType,
		m.Visibility, boolToInt(m.Static), boolToInt(m.Final),
		nullable(m.DocID), m.File, m.Line,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
	if err != nil {
		return "", fmt.Errorf("upserting member: %w", err)
	}

	if err := t.persistMembersJSONL(); err != nil {
		return "", err
	}
	return m.MemberID, nil
}

func (t *table) fetchMembers(filter map[string]any) ([]any, error) {
	where, tail, args, err := buildWhere(filter, memberFilterColumns)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(
		"SELECT "+memberColumns+" FROM members"+where+" ORDER BY owner ASC, name ASC, line ASC"+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching members: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func (t *table) persistMembersJSONL() error {
	rows, err := t.backend.db.Query(
		"SELECT " + memberColumns + " FROM members ORDER BY owner ASC, name ASC, line ASC")
	if err != nil {
		return fmt.Errorf("reading members for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return err
		}
		rec, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshaling member: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(t.backend.config.DataDir, "members.jsonl"), records)
}
