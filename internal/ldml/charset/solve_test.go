package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretext/ldmlcompile/internal/ucd"
)

// TestSolveLiteralRangeRespectsFilter verifies that a literal "a-z" range
// inside a bracket expression is subject to the ambient filter like any
// other set operand — it must not be treated as "real" text that bypasses
// the filter the way an unbracketed literal character does.
func TestSolveLiteralRangeRespectsFilter(t *testing.T) {
	oracle := ucd.NewStd()

	// Filter to only digits: a "a-z" range inside the expression should
	// be intersected away entirely, leaving just the explicit digit.
	filter, err := Solve("[0-9]", FullBMP(oracle), oracle)
	require.NoError(t, err)

	result, err := Solve("[a-z 5]", filter, oracle)
	require.NoError(t, err)

	assert.True(t, result.Contains('5'))
	assert.False(t, result.Contains('a'), "a literal range must not bypass the ambient filter")
	assert.False(t, result.Contains('z'), "a literal range must not bypass the ambient filter")
}

func TestSolveUnbracketedLiteralBypassesFilter(t *testing.T) {
	oracle := ucd.NewStd()

	filter, err := Solve("[0-9]", FullBMP(oracle), oracle)
	require.NoError(t, err)

	result, err := Solve("[a 5]", filter, oracle)
	require.NoError(t, err)

	assert.True(t, result.Contains('a'), "a single literal character is real text and bypasses the filter")
	assert.True(t, result.Contains('5'))
}
