package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPreTransform(t *testing.T) {
	testCases := []struct {
		name         string
		line         string
		wantDelegate string
		wantFilter   string
	}{
		{"plain delegate", ":: NFD", "NFD", ""},
		{"parenthesized delegate", ":: (NFC)", "NFC", ""},
		{"forward delegate with reverse in parens", ":: NFD (NFC)", "NFD", ""},
		{"filter expression", ":: [a-z]", "", "[a-z]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr, err := Classify(tc.line)
			require.NoError(t, err)
			assert.Equal(t, PreTransform, rr.Dir)
			assert.Equal(t, tc.wantDelegate, rr.Delegate)
			assert.Equal(t, tc.wantFilter, rr.FilterExpr)
		})
	}
}
