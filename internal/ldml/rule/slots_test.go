package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretext/ldmlcompile/internal/ldml/charset"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

func TestBuildParsedSideRevisitOffsetQuotedStringCountsOnce(t *testing.T) {
	oracle := ucd.NewStd()
	filter, err := charset.Solve("[a-z]", charset.FullBMP(oracle), oracle)
	require.NoError(t, err)

	side, err := BuildParsedSide(`a|'bcd'`, filter, oracle)
	require.NoError(t, err)

	assert.Equal(t, 1, side.RevisitOffset, "a quoted string must count as one revisit unit regardless of its length")
}

func TestBuildParsedSideRevisitOffsetExcludesBracketSet(t *testing.T) {
	oracle := ucd.NewStd()
	filter, err := charset.Solve("[a-z]", charset.FullBMP(oracle), oracle)
	require.NoError(t, err)

	side, err := BuildParsedSide(`a|[bc]d`, filter, oracle)
	require.NoError(t, err)

	assert.Equal(t, 1, side.RevisitOffset, "a bracketed character-set slot must not count toward the revisit offset")
}

func TestBuildParsedSideRevisitOffsetCountsCharsAndGroupRefs(t *testing.T) {
	oracle := ucd.NewStd()
	filter, err := charset.Solve("[a-z]", charset.FullBMP(oracle), oracle)
	require.NoError(t, err)

	side, err := BuildParsedSide(`a|bc$1`, filter, oracle)
	require.NoError(t, err)

	assert.Equal(t, 3, side.RevisitOffset, "plain characters and group refs after '|' each count as one unit")
}
