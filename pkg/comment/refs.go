package comment

import "strings"

// RefOccurrence is one cross-reference token found in a comment, not yet
// parsed against the reference grammar.
type RefOccurrence struct {
	Tag   string // see, throws, link, linkplain, value.
	Token string // Raw token text, including any label.
	Line  int    // Line offset within the comment body, 0-based.
}

// References collects the cross-reference tokens of the comment: every
// @see and @throws/@exception block tag, and every {@link}, {@linkplain},
// and {@value} inline tag with a payload. @exception occurrences report
// under "throws", the preferred spelling.
// Implements: prd004-comment-syntax R6.
func (p *Parsed) References() []RefOccurrence {
	var out []RefOccurrence

	for _, b := range p.Blocks {
		switch b.Name {
		case TagSee:
			if b.Text != "" {
				out = append(out, RefOccurrence{Tag: "see", Token: b.Text, Line: b.Line})
			}
		case TagThrows, TagException:
			// The exception type is the first word; the rest is description.
			fields := strings.Fields(b.Text)
			if len(fields) > 0 {
				out = append(out, RefOccurrence{Tag: "throws", Token: fields[0], Line: b.Line})
			}
		}
	}

	for _, in := range p.Inlines {
		switch in.Name {
		case InlineLink:
			if in.Text != "" {
				out = append(out, RefOccurrence{Tag: "link", Token: in.Text, Line: in.Line})
			}
		case InlineLinkplain:
			if in.Text != "" {
				out = append(out, RefOccurrence{Tag: "linkplain", Token: in.Text, Line: in.Line})
			}
		case InlineValue:
			// A bare {@value} cites the constant it documents; only a
			// payload makes a cross-reference.
			if in.Text != "" {
				out = append(out, RefOccurrence{Tag: "value", Token: in.Text, Line: in.Line})
			}
		}
	}
	return out
}
