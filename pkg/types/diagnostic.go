package types

import "time"

// Diagnostic severities, in ascending order of weight.
// Implements: prd007-style-checks R1.2.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// severityWeight orders severities for threshold comparison.
var severityWeight = map[string]int{
	SeverityInfo:    1,
	SeverityWarning: 2,
	SeverityError:   3,
}

// Diagnostic is one finding produced by the style checks or by reference
// resolution. Rule is a stable identifier (e.g. "param-coverage",
// "ambiguous-ref"); SubjectID points at the entity the finding is about.
// Implements: prd007-style-checks R1.
type Diagnostic struct {
	DiagID    string    `json:"diag_id"` // UUID v7, generated on creation.
	Rule      string    `json:"rule"`
	Severity  string    `json:"severity"` // One of the Severity constants.
	File      string    `json:"file"`
	Line      int       `json:"line"`
	Message   string    `json:"message"`
	SubjectID *string   `json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsValidSeverity reports whether the given string is a recognized severity.
func IsValidSeverity(s string) bool {
	_, ok := severityWeight[s]
	return ok
}

// SeverityAtLeast reports whether the diagnostic's severity is at or above
// the given threshold. Unknown severities compare as below every threshold.
func (d *Diagnostic) SeverityAtLeast(threshold string) bool {
	return severityWeight[d.Severity] >= severityWeight[threshold] && severityWeight[d.Severity] > 0
}
