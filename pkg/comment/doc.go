// Package comment parses doc-comment bodies: framing and leading-asterisk
// layout, the summary sentence, block tags (@param, @return, @see, ...),
// and inline tags ({@link}, {@code}, ...), and extracts the cross-reference
// tokens carried by @see, @throws, {@link}, {@linkplain}, and {@value}.
//
// The package understands the tag vocabulary only; it never interprets the
// referenced features. Resolution is a separate concern (internal/resolve).
//
// Implements: prd004-comment-syntax; docs/ARCHITECTURE § Comment Syntax.
package comment
