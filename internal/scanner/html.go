// package.html and overview.html doc extraction.
// Implements: prd003-source-scanner R6.
package scanner

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	bodyOpenRe  = regexp.MustCompile(`(?i)<body[^>]*>`)
	bodyCloseRe = regexp.MustCompile(`(?i)</body>`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
)

// readHTMLBody returns the text content of the file's <body> element, tags
// removed. Without a <body>, the whole file is used. The first sentence of
// the returned text serves as the package or overview summary downstream.
func readHTMLBody(path string) (*DocText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)

	line := 1
	if loc := bodyOpenRe.FindStringIndex(content); loc != nil {
		line += strings.Count(content[:loc[1]], "\n")
		content = content[loc[1]:]
	}
	if loc := bodyCloseRe.FindStringIndex(content); loc != nil {
		content = content[:loc[0]]
	}

	// Doc comments keep inline javadoc tags; HTML tags are markup only and
	// go away here.
	content = tagRe.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)

	return &DocText{Text: content, Line: line}, nil
}
