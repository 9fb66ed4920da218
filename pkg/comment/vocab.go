package comment

// Block tag names, without the leading '@' (prd004-comment-syntax R2).
// Exception and Throws are aliases; Throws is the preferred spelling.
const (
	TagAuthor      = "author"
	TagVersion     = "version"
	TagParam       = "param"
	TagReturn      = "return"
	TagException   = "exception"
	TagThrows      = "throws"
	TagSee         = "see"
	TagSince       = "since"
	TagSerial      = "serial"
	TagSerialField = "serialField"
	TagSerialData  = "serialData"
	TagDeprecated  = "deprecated"
)

// Inline tag names, without the leading "{@" (prd004-comment-syntax R3).
const (
	InlineLink       = "link"
	InlineLinkplain  = "linkplain"
	InlineInheritDoc = "inheritDoc"
	InlineDocRoot    = "docRoot"
	InlineLiteral    = "literal"
	InlineCode       = "code"
	InlineValue      = "value"
)

// blockTagRank orders block tags by the conventional ordering the chapter
// prescribes. Aliases share a rank.
var blockTagRank = map[string]int{
	TagAuthor:      1,
	TagVersion:     2,
	TagParam:       3,
	TagReturn:      4,
	TagException:   5,
	TagThrows:      5,
	TagSee:         6,
	TagSince:       7,
	TagSerial:      8,
	TagSerialField: 8,
	TagSerialData:  8,
	TagDeprecated:  9,
}

// knownInlineTags is the set of recognized inline tag names.
var knownInlineTags = map[string]bool{
	InlineLink:       true,
	InlineLinkplain:  true,
	InlineInheritDoc: true,
	InlineDocRoot:    true,
	InlineLiteral:    true,
	InlineCode:       true,
	InlineValue:      true,
}

// IsKnownBlockTag reports whether name is a recognized block tag.
func IsKnownBlockTag(name string) bool {
	_, ok := blockTagRank[name]
	return ok
}

// IsKnownInlineTag reports whether name is a recognized inline tag.
func IsKnownInlineTag(name string) bool {
	return knownInlineTags[name]
}

// BlockTagRank returns the conventional ordering rank of a block tag, and
// whether the tag is recognized. Lower ranks come first.
func BlockTagRank(name string) (int, bool) {
	r, ok := blockTagRank[name]
	return r, ok
}
