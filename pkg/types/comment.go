package types

import "time"

// Doc comment owner kinds (prd004-comment-syntax R1.3).
const (
	OwnerPackage  = "package"
	OwnerType     = "type"
	OwnerMember   = "member"
	OwnerOverview = "overview"
)

// validOwnerKinds is the set of recognized doc comment owner kinds.
var validOwnerKinds = map[string]bool{
	OwnerPackage:  true,
	OwnerType:     true,
	OwnerMember:   true,
	OwnerOverview: true,
}

// DocComment holds the body of one doc comment with its framing and leading
// asterisks already stripped. Block and inline tags are derived on demand by
// pkg/comment; only the raw body is stored.
// Implements: prd004-comment-syntax R1.
type DocComment struct {
	DocID     string    `json:"doc_id"`     // UUID v7, generated on creation.
	OwnerKind string    `json:"owner_kind"` // One of the Owner constants.
	OwnerID   string    `json:"owner_id"`   // ID of the documented entity; "" for overview.
	Text      string    `json:"text"`       // Comment body, framing stripped.
	File      string    `json:"file"`
	Line      int       `json:"line"` // Line of the opening delimiter, 1-based.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidOwnerKind reports whether the given string is a recognized owner kind.
func IsValidOwnerKind(kind string) bool {
	return validOwnerKinds[kind]
}
