package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultScriptMap(t *testing.T) {
	doc, err := Load("")
	require.NoError(t, err)

	testCases := []struct {
		script   string
		lang     string
		wantHead string
	}{
		{"arabic", "null", "arabic-latin"},
		{"arabic", "fa", "persian-latin-bgn"},
		{"arabic", "ps", "pashto-latin-bgn"},
		{"armenian", "null", "armenian-latin-bgn"},
		{"oriya", "null", "oriya-latin"},
		{"tamil", "null", "tamil-latin"},
		{"telugu", "null", "telugu-latin"},
		{"thai", "null", "thai-latin"},
	}

	for _, tc := range testCases {
		byLang, ok := doc.ScriptMap[tc.script]
		require.True(t, ok, "missing script_map entry for %q", tc.script)
		names, ok := byLang[tc.lang]
		require.True(t, ok, "missing %q/%q entry", tc.script, tc.lang)
		require.NotEmpty(t, names)
		assert.Equal(t, tc.wantHead, names[0])
	}
}
