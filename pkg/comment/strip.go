package comment

import "strings"

// Strip removes the /** ... */ framing and the conventional leading
// asterisks from a raw doc comment. Relative indentation after the
// asterisk column is preserved, so <pre> and {@code} blocks keep their
// layout. Text that does not carry the framing is returned with only the
// asterisk columns removed.
// Implements: prd004-comment-syntax R1.1, R1.2.
func Strip(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = trimmed[1:]
			// One space after the asterisk is layout, not content.
			trimmed = strings.TrimPrefix(trimmed, " ")
			lines[i] = trimmed
		} else if i == 0 {
			lines[i] = trimmed
		} else {
			lines[i] = line
		}
	}

	// Drop blank framing lines at both ends.
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
