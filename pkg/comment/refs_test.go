package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferences(t *testing.T) {
	body := `Inserts per {@link java.util.List#add(int, Object)} and renders
like {@linkplain Formatter the formatter}.

@param index the index
@throws IndexOutOfBoundsException if index is out of range
@exception IllegalStateException if the list is frozen
@see "The Java Programming Language"
@see #size()
@see {@value MAX_ENTRIES}`

	p := Parse(body)
	refs := p.References()

	var tags []string
	var tokens []string
	for _, r := range refs {
		tags = append(tags, r.Tag)
		tokens = append(tokens, r.Token)
	}

	assert.Contains(t, tokens, "IndexOutOfBoundsException")
	assert.Contains(t, tokens, "IllegalStateException")
	assert.Contains(t, tokens, `"The Java Programming Language"`)
	assert.Contains(t, tokens, "#size()")
	assert.Contains(t, tokens, "java.util.List#add(int, Object)")
	assert.Contains(t, tokens, "Formatter the formatter")
	assert.Contains(t, tokens, "MAX_ENTRIES")

	// @exception reports under the preferred spelling.
	assert.NotContains(t, tags, "exception")
	assert.Contains(t, tags, "throws")
}

func TestReferencesEmptyValueTag(t *testing.T) {
	// A bare {@value} cites the constant being documented, not a
	// cross-reference.
	p := Parse("The default is {@value}.")
	require.Len(t, p.Inlines, 1)
	assert.Empty(t, p.References())
}

func TestReferencesNone(t *testing.T) {
	p := Parse("Plain description.\n\n@param x the input\n@return the result")
	assert.Empty(t, p.References())
}

func TestBlockTagRankOrdering(t *testing.T) {
	author, _ := BlockTagRank(TagAuthor)
	version, _ := BlockTagRank(TagVersion)
	param, _ := BlockTagRank(TagParam)
	ret, _ := BlockTagRank(TagReturn)
	throws, _ := BlockTagRank(TagThrows)
	exception, _ := BlockTagRank(TagException)
	see, _ := BlockTagRank(TagSee)

	assert.Less(t, author, version)
	assert.Less(t, version, param)
	assert.Less(t, param, ret)
	assert.Less(t, ret, throws)
	assert.Less(t, throws, see)
	assert.Equal(t, throws, exception, "aliases share a rank")

	_, known := BlockTagRank("returns")
	assert.False(t, known)
}
