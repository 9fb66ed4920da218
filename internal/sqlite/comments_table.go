// DocComment entity CRUD for the comments table.
// Implements: prd002-sqlite-backend R12, R14.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/docref/pkg/types"
)

const commentColumns = "doc_id, owner_kind, owner_id, text, file, line, created_at, updated_at"

var commentFilterColumns = map[string]bool{
	"doc_id":     true,
	"owner_kind": true,
	"owner_id":   true,
	"file":       true,
}

func (t *table) getComment(id string) (any, error) {
	row := t.backend.db.QueryRow(
		"SELECT "+commentColumns+" FROM comments WHERE doc_id = ?", id)
	return scanComment(row)
}

func scanComment(row interface{ Scan(...any) error }) (*types.DocComment, error) {
	var c types.DocComment
	var createdAt, updatedAt string
	err := row.Scan(&c.DocID, &c.OwnerKind, &c.OwnerID, &c.Text, &c.File, &c.Line, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning comment: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *table) setComment(id string, data any) (string, error) {
	c, ok := data.(*types.DocComment)
	if !ok {
		return "", types.ErrInvalidData
	}
	if !types.IsValidOwnerKind(c.OwnerKind) {
		return "", types.ErrInvalidKind
	}

	now := time.Now()
	if id == "" && c.DocID == "" {
		c.DocID = newUUID()
	} else if id != "" {
		c.DocID = id
	}
	c.UpdatedAt = now
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	_, err := t.backend.db.Exec(`
		INSERT INTO comments (`+commentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			owner_kind = excluded.owner_kind,
			owner_id = excluded.owner_id,
			text = excluded.text,
			file = excluded.file,
			line = excluded.line,
			updated_at = excluded.updated_at`,
		c.DocID, c.OwnerKind, c.OwnerID, c.Text, c.File, c.Line,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return "", fmt.Errorf("upserting comment: %w", err)
	}

	if err := t.persistCommentsJSONL(); err != nil {
		return "", err
	}
	return c.DocID, nil
}

func (t *table) fetchComments(filter map[string]any) ([]any, error) {
	where, tail, args, err := buildWhere(filter, commentFilterColumns)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(
		"SELECT "+commentColumns+" FROM comments"+where+" ORDER BY file ASC, line ASC"+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (t *table) persistCommentsJSONL() error {
	rows, err := t.backend.db.Query(
		"SELECT " + commentColumns + " FROM comments ORDER BY file ASC, line ASC")
	if err != nil {
		return fmt.Errorf("reading comments for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return err
		}
		rec, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling comment: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(t.backend.config.DataDir, "comments.jsonl"), records)
}
