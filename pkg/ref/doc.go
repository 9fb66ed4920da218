// Package ref parses cross-reference tokens as they appear after @see,
// @throws, and inside {@link}, {@linkplain}, and {@value} tags.
//
// The grammar:
//
//	reference ::= quoted-string | html-anchor | feature [label]
//	feature   ::= package | package.Type | Type | Type#member |
//	              Type#member(param-types) | #member | #member(param-types)
//
// Implements: prd005-reference-grammar; docs/ARCHITECTURE § Reference Grammar.
package ref
