package comment

import "strings"

// BlockTag is one block tag section of a doc comment: the tag name and the
// text it owns, which runs until the next block tag or the end of the
// comment.
type BlockTag struct {
	Name string // Without the leading '@'.
	Text string // Owned text, trimmed.
	Line int    // Line offset within the comment body, 0-based.
}

// Problem is a syntax finding made while parsing a comment body.
type Problem struct {
	Message string
	Line    int
}

// Parsed is the structured form of one doc comment body.
type Parsed struct {
	// Summary is the first sentence of the main description.
	Summary string

	// Body is the main description: everything before the first block tag.
	Body string

	// Blocks holds the block tag sections in source order.
	Blocks []BlockTag

	// Inlines holds every inline tag found in the body and block texts.
	Inlines []InlineTag

	// Problems holds syntax findings (unterminated inline tags,
	// unrecognized tag names).
	Problems []Problem
}

// Parse parses a doc comment body (already stripped by Strip) into its main
// description and block tag sections, scanning both for inline tags.
// Implements: prd004-comment-syntax R2, R4.
func Parse(body string) *Parsed {
	p := &Parsed{}
	lines := strings.Split(body, "\n")

	var section strings.Builder
	sectionStart := 0
	current := "" // "" while in the main description
	inlineDepth := 0

	flush := func() {
		text := strings.TrimSpace(section.String())
		if current == "" {
			p.Body = text
		} else {
			p.Blocks = append(p.Blocks, BlockTag{Name: current, Text: text, Line: sectionStart})
		}
		section.Reset()
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		// A line-leading '@' starts a block tag, unless an inline tag is
		// still open from a previous line.
		if inlineDepth == 0 && strings.HasPrefix(trimmed, "@") {
			name := tagName(trimmed[1:])
			if name != "" {
				flush()
				current = name
				sectionStart = i
				if !IsKnownBlockTag(name) {
					p.Problems = append(p.Problems, Problem{
						Message: "unknown block tag @" + name,
						Line:    i,
					})
				}
				rest := strings.TrimSpace(trimmed[1+len(name):])
				section.WriteString(rest)
				inlineDepth = openInlineDepth(rest, inlineDepth)
				continue
			}
		}
		if section.Len() > 0 {
			section.WriteByte('\n')
		}
		section.WriteString(line)
		inlineDepth = openInlineDepth(line, inlineDepth)
	}
	flush()

	p.Summary = firstSentence(p.Body)
	p.scanInlineTags(body)
	return p
}

// Tag returns the first block tag with the given name, or nil.
func (p *Parsed) Tag(name string) *BlockTag {
	for i := range p.Blocks {
		if p.Blocks[i].Name == name {
			return &p.Blocks[i]
		}
	}
	return nil
}

// Tags returns all block tags with the given name, in source order.
func (p *Parsed) Tags(name string) []BlockTag {
	var out []BlockTag
	for _, b := range p.Blocks {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

// tagName returns the leading tag identifier of s: letters only, matching
// the javadoc vocabulary (serialField is the one mixed-case name).
func tagName(s string) string {
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return ""
	}
	if end < len(s) {
		switch s[end] {
		case ' ', '\t', '\n', '}':
		default:
			return ""
		}
	}
	return s[:end]
}

// firstSentence returns the summary sentence of a description: text up to
// the first period followed by whitespace and a capitalized next sentence
// (or end of text). Abbreviations like "e.g. foo" do not end the sentence,
// and periods inside inline tags are ignored, so "{@link java.util.List}"
// stays intact.
// Implements: prd004-comment-syntax R5.
func firstSentence(body string) string {
	depth := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth > 0 {
				continue
			}
			if i+1 == len(body) {
				return strings.TrimSpace(body)
			}
			if !isSpaceByte(body[i+1]) {
				continue
			}
			j := i + 2
			for j < len(body) && isSpaceByte(body[j]) {
				j++
			}
			if j == len(body) || (body[j] >= 'A' && body[j] <= 'Z') {
				return strings.TrimSpace(body[:i+1])
			}
		}
	}
	return strings.TrimSpace(body)
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// openInlineDepth returns the inline tag nesting depth after scanning line,
// starting from the given depth. Only braces opened by "{@" count, so prose
// braces do not unbalance the scan; a closing brace matches the innermost
// open tag.
func openInlineDepth(line string, depth int) int {
	for i := 0; i < len(line); i++ {
		if line[i] == '{' && i+1 < len(line) && line[i+1] == '@' {
			depth++
		} else if line[i] == '{' && depth > 0 {
			// Nested literal brace inside an inline tag ({@code {}}).
			depth++
		} else if line[i] == '}' && depth > 0 {
			depth--
		}
	}
	return depth
}
