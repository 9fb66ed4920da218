package types

import (
	"strings"
	"time"
)

// Member kinds. Every MemberDecl is one of these.
// Implements: prd003-source-scanner R4.
const (
	MemberKindField       = "field"
	MemberKindMethod      = "method"
	MemberKindConstructor = "constructor"
	MemberKindEnumConst   = "enum_constant"
)

// validMemberKinds is the set of recognized member kinds.
var validMemberKinds = map[string]bool{
	MemberKindField:       true,
	MemberKindMethod:      true,
	MemberKindConstructor: true,
	MemberKindEnumConst:   true,
}

// MemberDecl represents a declared field, method, constructor, or enum
// constant. Methods sharing (Owner, Name) with different parameter lists are
// overloads; a reference that names an overloaded method without a parameter
// list is ambiguous (prd006-reference-resolution R5).
// Implements: prd003-source-scanner R4.
type MemberDecl struct {
	MemberID   string    `json:"member_id"`   // UUID v7, generated on creation.
	Owner      string    `json:"owner"`       // Qualified name of the declaring type.
	Name       string    `json:"name"`        // Member name; constructors use the type's simple name.
	Kind       string    `json:"kind"`        // One of the MemberKind constants.
	Params     []string  `json:"params"`      // Normalized parameter types; nil for fields and enum constants.
	ParamNames []string  `json:"param_names"` // Declared parameter names, aligned with Params.
	ReturnType string    `json:"return_type"` // Declared return or field type; "" for constructors.
	Visibility string    `json:"visibility"`  // public, protected, package, private.
	Static     bool      `json:"static"`
	Final      bool      `json:"final"`
	DocID      *string   `json:"doc_id"` // Doc comment; nil if undocumented.
	File       string    `json:"file"`
	Line       int       `json:"line"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsValidMemberKind reports whether the given string is a recognized member kind.
func IsValidMemberKind(kind string) bool {
	return validMemberKinds[kind]
}

// SetKind sets the member kind to the given value.
// Returns ErrInvalidKind if the kind is not recognized.
func (m *MemberDecl) SetKind(kind string) error {
	if !validMemberKinds[kind] {
		return ErrInvalidKind
	}
	m.Kind = kind
	m.UpdatedAt = time.Now()
	return nil
}

// IsConstant reports whether the member is a constant by the chapter's
// definition: a static final field, or an enum constant.
func (m *MemberDecl) IsConstant() bool {
	if m.Kind == MemberKindEnumConst {
		return true
	}
	return m.Kind == MemberKindField && m.Static && m.Final
}

// Signature renders the member as name(params) for methods and
// constructors, or the bare name for fields and enum constants.
func (m *MemberDecl) Signature() string {
	if m.Kind == MemberKindField || m.Kind == MemberKindEnumConst {
		return m.Name
	}
	return m.Name + "(" + strings.Join(m.Params, ", ") + ")"
}

// MatchesParams reports whether the member's normalized parameter list
// matches the given one. Parameter types compare equal when the written
// forms match exactly, or when their simple names match (a reference may
// cite either "String" or "java.lang.String").
func (m *MemberDecl) MatchesParams(params []string) bool {
	if len(m.Params) != len(params) {
		return false
	}
	for i, p := range params {
		if m.Params[i] == p {
			continue
		}
		if simpleTypeName(m.Params[i]) != simpleTypeName(p) {
			return false
		}
	}
	return true
}

// simpleTypeName strips any package qualifier, preserving array dimensions.
func simpleTypeName(t string) string {
	dims := ""
	base := t
	if i := strings.Index(t, "["); i >= 0 {
		base, dims = t[:i], t[i:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[i+1:]
	}
	return base + dims
}
