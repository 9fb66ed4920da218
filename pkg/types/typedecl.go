package types

import (
	"strings"
	"time"
)

// Type kinds. Every TypeDecl is one of these.
// Implements: prd003-source-scanner R3.
const (
	TypeKindClass      = "class"
	TypeKindInterface  = "interface"
	TypeKindEnum       = "enum"
	TypeKindAnnotation = "annotation"
)

// validTypeKinds is the set of recognized type kinds.
var validTypeKinds = map[string]bool{
	TypeKindClass:      true,
	TypeKindInterface:  true,
	TypeKindEnum:       true,
	TypeKindAnnotation: true,
}

// TypeDecl represents a declared class, interface, enum, or annotation type.
// Nested types record their enclosing type's qualified name; the resolver
// walks that chain outward when resolving unqualified member references.
// Implements: prd003-source-scanner R3, prd006-reference-resolution R2.
type TypeDecl struct {
	TypeID        string    `json:"type_id"`        // UUID v7, generated on creation.
	QualifiedName string    `json:"qualified_name"` // Package-qualified, dots for nesting (e.g. "java.util.Map.Entry").
	SimpleName    string    `json:"simple_name"`    // Last segment of QualifiedName.
	Package       string    `json:"package"`        // Declaring package name.
	Kind          string    `json:"kind"`           // One of the TypeKind constants.
	Enclosing     *string   `json:"enclosing"`      // Qualified name of the enclosing type; nil for top level.
	Extends       *string   `json:"extends"`        // Superclass name as written; nil if none.
	Implements    []string  `json:"implements"`     // Superinterface names as written.
	Visibility    string    `json:"visibility"`     // public, protected, package, private.
	DocID         *string   `json:"doc_id"`         // Doc comment; nil if undocumented.
	File          string    `json:"file"`
	Line          int       `json:"line"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsValidTypeKind reports whether the given string is a recognized type kind.
func IsValidTypeKind(kind string) bool {
	return validTypeKinds[kind]
}

// SetKind sets the type kind to the given value.
// Returns ErrInvalidKind if the kind is not recognized.
func (t *TypeDecl) SetKind(kind string) error {
	if !validTypeKinds[kind] {
		return ErrInvalidKind
	}
	t.Kind = kind
	t.UpdatedAt = time.Now()
	return nil
}

// EnclosingChain returns the qualified names of enclosing types, innermost
// first, derived from QualifiedName and Package. An empty slice means the
// type is declared at the top level.
func (t *TypeDecl) EnclosingChain() []string {
	local := t.QualifiedName
	if t.Package != "" {
		local = strings.TrimPrefix(t.QualifiedName, t.Package+".")
	}
	segs := strings.Split(local, ".")
	if len(segs) < 2 {
		return []string{}
	}
	chain := make([]string, 0, len(segs)-1)
	prefix := t.Package
	names := make([]string, 0, len(segs)-1)
	for _, s := range segs[:len(segs)-1] {
		if prefix != "" {
			prefix = prefix + "." + s
		} else {
			prefix = s
		}
		names = append(names, prefix)
	}
	// Innermost enclosing type first.
	for i := len(names) - 1; i >= 0; i-- {
		chain = append(chain, names[i])
	}
	return chain
}
