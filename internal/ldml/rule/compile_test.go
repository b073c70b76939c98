package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretext/ldmlcompile/internal/ldml/charset"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

func TestBuildContextSideWordBoundary(t *testing.T) {
	oracle := ucd.NewStd()
	filter, err := charset.Solve("[a-z]", charset.FullBMP(oracle), oracle)
	require.NoError(t, err)

	side, kind, err := buildContextSide(" "+WordBoundaryVar+" ", filter, oracle)
	require.NoError(t, err)
	assert.Equal(t, ContextWordBoundary, kind)
	assert.Empty(t, side.Slots, "the word-boundary sentinel variable must not be tokenized as rvalue text")
}

func TestBuildContextSideLiteral(t *testing.T) {
	oracle := ucd.NewStd()
	filter, err := charset.Solve("[a-z]", charset.FullBMP(oracle), oracle)
	require.NoError(t, err)

	side, kind, err := buildContextSide("ab", filter, oracle)
	require.NoError(t, err)
	assert.Equal(t, ContextLiteral, kind)
	assert.Equal(t, []rune("ab"), side.Flatten())
}

func TestBuildContextSideEmpty(t *testing.T) {
	oracle := ucd.NewStd()
	filter, err := charset.Solve("[a-z]", charset.FullBMP(oracle), oracle)
	require.NoError(t, err)

	side, kind, err := buildContextSide("", filter, oracle)
	require.NoError(t, err)
	assert.Equal(t, ContextNone, kind)
	assert.Empty(t, side.Slots)
}
