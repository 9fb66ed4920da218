// Whole-index JSON export and import.
// Implements: prd002-sqlite-backend R8; prd008-docref-cli R9.
package sqlite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/docref/pkg/types"
)

// exportDoc is the single-document form of the index. Section order matches
// the JSONL file set; each entry is one entity record.
type exportDoc struct {
	Packages    []json.RawMessage `json:"packages"`
	Types       []json.RawMessage `json:"types"`
	Members     []json.RawMessage `json:"members"`
	Comments    []json.RawMessage `json:"comments"`
	Imports     []json.RawMessage `json:"imports"`
	References  []json.RawMessage `json:"references"`
	Diagnostics []json.RawMessage `json:"diagnostics"`
}

// Export writes the entire index as one JSON document. The JSONL files are
// the source of truth, so the export reads them directly.
func (b *Backend) Export(w io.Writer) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrIndexDetached
	}

	var doc exportDoc
	sections := []struct {
		file string
		dst  *[]json.RawMessage
	}{
		{"packages.jsonl", &doc.Packages},
		{"types.jsonl", &doc.Types},
		{"members.jsonl", &doc.Members},
		{"comments.jsonl", &doc.Comments},
		{"imports.jsonl", &doc.Imports},
		{"references.jsonl", &doc.References},
		{"diagnostics.jsonl", &doc.Diagnostics},
	}
	for _, s := range sections {
		records, err := readJSONL(jsonlPath(b.config.DataDir, s.file))
		if err != nil {
			return err
		}
		if records == nil {
			records = []json.RawMessage{}
		}
		*s.dst = records
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// Import replaces the index contents with the given JSON document. The
// JSONL files are rewritten atomically and the SQLite tables reloaded.
func (b *Backend) Import(r io.Reader) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrIndexDetached
	}

	var doc exportDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decoding import: %w", err)
	}

	sections := []struct {
		file    string
		records []json.RawMessage
	}{
		{"packages.jsonl", doc.Packages},
		{"types.jsonl", doc.Types},
		{"members.jsonl", doc.Members},
		{"comments.jsonl", doc.Comments},
		{"imports.jsonl", doc.Imports},
		{"references.jsonl", doc.References},
		{"diagnostics.jsonl", doc.Diagnostics},
	}
	for _, s := range sections {
		// The export document is indented; each record must collapse back
		// to a single JSONL line or the loader rejects it.
		compacted := make([]json.RawMessage, 0, len(s.records))
		for _, rec := range s.records {
			var line bytes.Buffer
			if err := json.Compact(&line, rec); err != nil {
				return fmt.Errorf("compacting %s record: %w", s.file, err)
			}
			compacted = append(compacted, json.RawMessage(bytes.Clone(line.Bytes())))
		}
		if err := writeJSONL(jsonlPath(b.config.DataDir, s.file), compacted); err != nil {
			return err
		}
	}

	return b.reload()
}

// reload empties every SQLite table and reloads from the JSONL files.
// Caller holds the write lock.
func (b *Backend) reload() error {
	for _, m := range jsonlTableMapping {
		if _, err := b.db.Exec("DELETE FROM " + m.table); err != nil {
			return fmt.Errorf("clearing %s: %w", m.table, err)
		}
	}
	if err := loadAllJSONL(b.db, b.config.DataDir); err != nil {
		return fmt.Errorf("reloading JSONL: %w", err)
	}
	return nil
}
