package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mesh-intelligence/docref/pkg/types"
)

// table implements types.Table for a single entity type. Each table knows
// its public name and the backend it belongs to (for DB access and JSONL
// writes).
// Implements: prd001-index-core R3, prd002-sqlite-backend R12.
type table struct {
	name    string   // Public table name (e.g. "references").
	backend *Backend // Parent backend for DB access and JSONL writes.
}

// newTable creates a table accessor for the given public table name.
func newTable(b *Backend, name string) *table {
	return &table{name: name, backend: b}
}

// Get retrieves an entity by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *table) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrIndexDetached
	}

	switch t.name {
	case types.TablePackages:
		return t.getPackage(id)
	case types.TableTypes:
		return t.getType(id)
	case types.TableMembers:
		return t.getMember(id)
	case types.TableComments:
		return t.getComment(id)
	case types.TableImports:
		return t.getImport(id)
	case types.TableReferences:
		return t.getReference(id)
	case types.TableDiagnostics:
		return t.getDiagnostic(id)
	default:
		return nil, types.ErrTableNotFound
	}
}

// Set creates or updates an entity. If id is empty, generates a UUID v7.
// Returns the entity ID and any error.
func (t *table) Set(id string, data any) (string, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", types.ErrIndexDetached
	}

	switch t.name {
	case types.TablePackages:
		return t.setPackage(id, data)
	case types.TableTypes:
		return t.setType(id, data)
	case types.TableMembers:
		return t.setMember(id, data)
	case types.TableComments:
		return t.setComment(id, data)
	case types.TableImports:
		return t.setImport(id, data)
	case types.TableReferences:
		return t.setReference(id, data)
	case types.TableDiagnostics:
		return t.setDiagnostic(id, data)
	default:
		return "", types.ErrTableNotFound
	}
}

// Delete removes an entity by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *table) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrIndexDetached
	}

	sqlName := sqlTableName(t.name)
	idCol := idColumn(t.name)

	res, err := t.backend.db.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", sqlName, idCol), id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.name, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return t.persistJSONL()
}

// Fetch returns entities matching the filter. Empty filter matches all.
// Filter keys are column names; limit and offset apply after ordering.
func (t *table) Fetch(filter map[string]any) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrIndexDetached
	}

	switch t.name {
	case types.TablePackages:
		return t.fetchPackages(filter)
	case types.TableTypes:
		return t.fetchTypes(filter)
	case types.TableMembers:
		return t.fetchMembers(filter)
	case types.TableComments:
		return t.fetchComments(filter)
	case types.TableImports:
		return t.fetchImports(filter)
	case types.TableReferences:
		return t.fetchReferences(filter)
	case types.TableDiagnostics:
		return t.fetchDiagnostics(filter)
	default:
		return nil, types.ErrTableNotFound
	}
}

// sqlTableName maps a public table name to its SQL table.
func sqlTableName(name string) string {
	if name == types.TableReferences {
		return "refs"
	}
	return name
}

// idColumn maps a public table name to its primary key column.
func idColumn(name string) string {
	switch name {
	case types.TablePackages:
		return "package_id"
	case types.TableTypes:
		return "type_id"
	case types.TableMembers:
		return "member_id"
	case types.TableComments:
		return "doc_id"
	case types.TableImports:
		return "import_id"
	case types.TableReferences:
		return "ref_id"
	case types.TableDiagnostics:
		return "diag_id"
	default:
		return "id"
	}
}

// buildWhere turns a filter map into a WHERE clause over the allowed
// columns plus a LIMIT/OFFSET tail that the caller appends after its ORDER
// BY. String, bool, and numeric values are supported; anything else is
// ErrInvalidFilter. Numbers arrive as float64 when the filter came through
// JSON, so toInt coerces.
func buildWhere(filter map[string]any, allowed map[string]bool) (where, tail string, args []any, err error) {
	if len(filter) == 0 {
		return "", "", nil, nil
	}

	var conditions []string
	limit, offset := 0, 0

	for key, val := range filter {
		switch key {
		case "limit":
			n, ok := toInt(val)
			if !ok {
				return "", "", nil, types.ErrInvalidFilter
			}
			limit = n
			continue
		case "offset":
			n, ok := toInt(val)
			if !ok {
				return "", "", nil, types.ErrInvalidFilter
			}
			offset = n
			continue
		}
		if !allowed[key] {
			return "", "", nil, types.ErrInvalidFilter
		}
		switch v := val.(type) {
		case string:
			conditions = append(conditions, key+" = ?")
			args = append(args, v)
		case bool:
			conditions = append(conditions, key+" = ?")
			args = append(args, boolToInt(v))
		case int, int64:
			n, _ := toInt(v)
			conditions = append(conditions, key+" = ?")
			args = append(args, n)
		case float64:
			// JSON-decoded filters carry integers as float64; a fractional
			// value can never match an integer column.
			if v != math.Trunc(v) {
				return "", "", nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, key+" = ?")
			args = append(args, int(v))
		default:
			return "", "", nil, types.ErrInvalidFilter
		}
	}

	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	if limit > 0 {
		tail += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		tail += fmt.Sprintf(" OFFSET %d", offset)
	}
	return where, tail, args, nil
}

// persistJSONL rewrites the JSONL file for this table from the current
// SQLite contents. The caller must hold the backend write lock.
func (t *table) persistJSONL() error {
	switch t.name {
	case types.TablePackages:
		return t.persistPackagesJSONL()
	case types.TableTypes:
		return t.persistTypesJSONL()
	case types.TableMembers:
		return t.persistMembersJSONL()
	case types.TableComments:
		return t.persistCommentsJSONL()
	case types.TableImports:
		return t.persistImportsJSONL()
	case types.TableReferences:
		return t.persistReferencesJSONL()
	case types.TableDiagnostics:
		return t.persistDiagnosticsJSONL()
	default:
		return types.ErrTableNotFound
	}
}

// Timestamp and encoding helpers shared by the entity table files.

func formatTime(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return ts, nil
}

// toInt converts various numeric types to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// encodeStrings marshals a string slice for a TEXT column; nil encodes as
// SQL NULL to preserve the written/not-written distinction for params.
func encodeStrings(ss []string) (any, error) {
	if ss == nil {
		return nil, nil
	}
	data, err := json.Marshal(ss)
	if err != nil {
		return nil, fmt.Errorf("marshaling string list: %w", err)
	}
	return string(data), nil
}

// decodeStrings reverses encodeStrings.
func decodeStrings(col sql.NullString) ([]string, error) {
	if !col.Valid {
		return nil, nil
	}
	var ss []string
	if err := json.Unmarshal([]byte(col.String), &ss); err != nil {
		return nil, fmt.Errorf("parsing string list: %w", err)
	}
	if ss == nil {
		ss = []string{}
	}
	return ss, nil
}

// nullable converts an optional string pointer for a NULL-able column.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// fromNull converts a NULL-able column back to an optional string pointer.
func fromNull(col sql.NullString) *string {
	if !col.Valid {
		return nil
	}
	s := col.String
	return &s
}
