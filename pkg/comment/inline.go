package comment

import "strings"

// InlineTag is one {@name ...} occurrence.
type InlineTag struct {
	Name string // Without the "{@" framing.
	Text string // Tag payload, trimmed; "" for {@inheritDoc} and {@docRoot}.
	Line int    // Line offset within the comment body, 0-based.
}

// scanInlineTags walks the whole comment body for inline tags. Braces
// balance: {@code {}} owns its nested braces, and an inline tag that never
// closes is recorded as a problem (prd004-comment-syntax R4.3).
func (p *Parsed) scanInlineTags(body string) {
	line := 0
	for i := 0; i < len(body); i++ {
		if body[i] == '\n' {
			line++
			continue
		}
		if body[i] != '{' || i+1 >= len(body) || body[i+1] != '@' {
			continue
		}

		name := tagName(body[i+2:])
		if name == "" {
			// Not inline tag syntax; "{@" followed by punctuation is prose.
			continue
		}
		end, ok := matchBrace(body, i)
		if !ok {
			p.Problems = append(p.Problems, Problem{
				Message: "unterminated inline tag {@" + name + "}",
				Line:    line,
			})
			return
		}

		payload := body[i+2+len(name) : end]
		p.Inlines = append(p.Inlines, InlineTag{
			Name: name,
			Text: strings.TrimSpace(payload),
			Line: line,
		})
		if !IsKnownInlineTag(name) {
			p.Problems = append(p.Problems, Problem{
				Message: "unknown inline tag {@" + name + "}",
				Line:    line,
			})
		}

		line += strings.Count(body[i:end], "\n")
		i = end
	}
}

// matchBrace returns the index of the '}' closing the '{' at start,
// counting nested braces, and whether a match was found.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
