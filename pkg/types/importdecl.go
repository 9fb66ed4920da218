package types

import "time"

// ImportDecl records one import statement of a scanned source file.
// On-demand imports ("import java.util.*;") set OnDemand and store the
// package name; single-type imports store the full type name. The resolver
// consults imports of the referencing file when matching simple names
// (prd006-reference-resolution R2e).
// Implements: prd003-source-scanner R5.
type ImportDecl struct {
	ImportID  string    `json:"import_id"` // UUID v7, generated on creation.
	File      string    `json:"file"`      // Importing source file.
	Path      string    `json:"path"`      // Imported type or package name, without the trailing ".*".
	OnDemand  bool      `json:"on_demand"` // True for wildcard imports.
	Static    bool      `json:"static"`    // True for "import static".
	CreatedAt time.Time `json:"created_at"`
}
