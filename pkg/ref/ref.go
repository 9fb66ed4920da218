package ref

import (
	"errors"
	"strings"
)

// Reference forms (prd005-reference-grammar R2).
const (
	FormString  = "string"
	FormAnchor  = "anchor"
	FormFeature = "feature"
)

// Parse errors (prd005-reference-grammar R6).
var (
	ErrEmptyReference     = errors.New("empty reference token")
	ErrUnterminatedString = errors.New("unterminated quoted string")
	ErrMalformedAnchor    = errors.New("malformed HTML anchor")
	ErrEmptyMember        = errors.New("member name missing after #")
	ErrUnbalancedParams   = errors.New("unbalanced parameter list")
	ErrMalformedFeature   = errors.New("malformed feature")
)

// Parsed is the result of parsing one reference token.
type Parsed struct {
	Form string

	// Text is the quoted-string content (quotes stripped) or the raw
	// anchor markup. Empty for feature references.
	Text string

	// Feature is set only for FormFeature.
	Feature *Feature

	// Label is the optional display text following a feature.
	Label string
}

// Parse parses a reference token. Leading and trailing whitespace is
// ignored. A token starting with a double quote is a quoted string; a token
// starting with '<' is an HTML anchor; anything else is a feature with an
// optional trailing label (prd005-reference-grammar R2.1-R2.3).
func Parse(token string) (*Parsed, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyReference
	}

	switch token[0] {
	case '"':
		if len(token) < 2 || !strings.HasSuffix(token, `"`) {
			return nil, ErrUnterminatedString
		}
		return &Parsed{Form: FormString, Text: token[1 : len(token)-1]}, nil
	case '<':
		lower := strings.ToLower(token)
		if !strings.HasPrefix(lower, "<a ") && !strings.HasPrefix(lower, "<a>") {
			return nil, ErrMalformedAnchor
		}
		if !strings.HasSuffix(lower, "</a>") {
			return nil, ErrMalformedAnchor
		}
		return &Parsed{Form: FormAnchor, Text: token}, nil
	}

	featureEnd := featureLength(token)
	feature, err := ParseFeature(token[:featureEnd])
	if err != nil {
		return nil, err
	}
	return &Parsed{
		Form:    FormFeature,
		Feature: feature,
		Label:   strings.TrimSpace(token[featureEnd:]),
	}, nil
}

// featureLength returns the length of the feature prefix of token: text up
// to the first whitespace that is not inside a parameter list.
func featureLength(token string) int {
	depth := 0
	for i, r := range token {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ' ', '\t', '\n':
			if depth == 0 {
				return i
			}
		}
	}
	return len(token)
}
