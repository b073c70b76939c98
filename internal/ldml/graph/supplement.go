package graph

import (
	"github.com/aretext/ldmlcompile/internal/ldml/rule"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

// parseSupplementalRules compiles a supplemental table entry's raw rule
// lines (config.SupplementalRule.Rules) into CompiledRules, dropping any
// line that turns out to be ignorable for the same reasons an ordinary
// transform-file rule would be.
func parseSupplementalRules(lines []string, oracle ucd.Oracle) ([]rule.CompiledRule, error) {
	var out []rule.CompiledRule
	for _, line := range lines {
		cr, skip, err := rule.CompileRuleLine(line, oracle)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		out = append(out, cr)
	}
	return out, nil
}
