package types

import "time"

// PackageDecl represents a Java package discovered during a scan.
// Package documentation comes from package-info.java, or from a legacy
// package.html body when no package-info.java exists in the package.
// Implements: prd003-source-scanner R2.
type PackageDecl struct {
	PackageID string    `json:"package_id"` // UUID v7, generated on creation.
	Name      string    `json:"name"`       // Dotted package name (e.g. "java.util").
	DocID     *string   `json:"doc_id"`     // Doc comment for the package; nil if undocumented.
	File      string    `json:"file"`       // Source of the package doc, "" if none.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
