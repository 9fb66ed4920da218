package types

import "time"

// Reference tag kinds: the doc-comment tags that carry cross-reference
// tokens (prd005-reference-grammar R1).
const (
	RefTagSee       = "see"
	RefTagLink      = "link"
	RefTagLinkplain = "linkplain"
	RefTagValue     = "value"
	RefTagThrows    = "throws"
)

// validRefTags is the set of recognized reference tag kinds.
var validRefTags = map[string]bool{
	RefTagSee:       true,
	RefTagLink:      true,
	RefTagLinkplain: true,
	RefTagValue:     true,
	RefTagThrows:    true,
}

// Reference forms per the cross-reference grammar:
// reference ::= quoted-string | html-anchor | feature [label].
const (
	RefFormString  = "string"
	RefFormAnchor  = "anchor"
	RefFormFeature = "feature"
)

// Reference resolution states. A reference progresses from pending to
// exactly one settled state during resolution. A re-scan rebuilds the
// references table, so every scan generation starts from pending.
// Implements: prd006-reference-resolution R4.
const (
	RefStatePending    = "pending"
	RefStateResolved   = "resolved"
	RefStateUnresolved = "unresolved"
	RefStateAmbiguous  = "ambiguous"
)

// validRefStates is the set of recognized reference states.
var validRefStates = map[string]bool{
	RefStatePending:    true,
	RefStateResolved:   true,
	RefStateUnresolved: true,
	RefStateAmbiguous:  true,
}

// Reference is one cross-reference occurrence inside a doc comment.
// The parsed feature fields are empty for string and anchor forms, which
// need no resolution (prd005-reference-grammar R2.4).
type Reference struct {
	RefID   string `json:"ref_id"` // UUID v7, generated on creation.
	DocID   string `json:"doc_id"` // Containing doc comment.
	Tag     string `json:"tag"`    // One of the RefTag constants.
	Raw     string `json:"raw"`    // Token text as written.
	Form    string `json:"form"`   // One of the RefForm constants.
	Package string `json:"package"`
	Type    string `json:"type"`   // Type name as written; "" for package and #member forms.
	Member  string `json:"member"` // Member name; "" for package and type forms.
	// Params is the cited parameter list; nil when no list was written,
	// which is what makes an overloaded member ambiguous.
	Params    []string  `json:"params"`
	HasParams bool      `json:"has_params"`
	Label     string    `json:"label"` // Optional display label.
	State     string    `json:"state"` // One of the RefState constants.
	TargetID  *string   `json:"target_id"`
	Anchor    string    `json:"anchor"` // javadoc-shaped link target once resolved.
	File      string    `json:"file"`
	Line      int       `json:"line"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidRefTag reports whether the given string is a recognized tag kind.
func IsValidRefTag(tag string) bool {
	return validRefTags[tag]
}

// Resolve marks the reference as resolved to the given target entity and
// anchor. Returns ErrInvalidTransition unless the current state is pending.
// Implements: prd006-reference-resolution R4.1.
func (r *Reference) Resolve(targetID, anchor string) error {
	if r.State != RefStatePending {
		return ErrInvalidTransition
	}
	r.State = RefStateResolved
	r.TargetID = &targetID
	r.Anchor = anchor
	r.UpdatedAt = time.Now()
	return nil
}

// MarkUnresolved marks the reference as not found.
// Returns ErrInvalidTransition unless the current state is pending.
// Implements: prd006-reference-resolution R4.2.
func (r *Reference) MarkUnresolved() error {
	if r.State != RefStatePending {
		return ErrInvalidTransition
	}
	r.State = RefStateUnresolved
	r.UpdatedAt = time.Now()
	return nil
}

// MarkAmbiguous marks the reference as matching more than one candidate:
// an overloaded member cited without a parameter list.
// Returns ErrInvalidTransition unless the current state is pending.
// Implements: prd006-reference-resolution R4.3, R5.
func (r *Reference) MarkAmbiguous() error {
	if r.State != RefStatePending {
		return ErrInvalidTransition
	}
	r.State = RefStateAmbiguous
	r.UpdatedAt = time.Now()
	return nil
}

// SetState sets the reference state to the given value without transition
// checks. Returns ErrInvalidState if the state is not recognized. Used by
// storage hydration; resolution goes through Resolve/MarkUnresolved/
// MarkAmbiguous.
func (r *Reference) SetState(state string) error {
	if !validRefStates[state] {
		return ErrInvalidState
	}
	r.State = state
	r.UpdatedAt = time.Now()
	return nil
}
