package rule

import (
	"github.com/pkg/errors"

	"github.com/aretext/ldmlcompile/internal/ldml/charset"
	"github.com/aretext/ldmlcompile/internal/ldml/token"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

// CompileRuleLine compiles one standalone rule line — used for the
// supplemental built-in rules spliced in by the linker (component F step
// 7), which are plain forward rules with no surrounding transform file,
// variable bindings, or ambient filter.
func CompileRuleLine(text string, oracle ucd.Oracle) (CompiledRule, bool, error) {
	rr, err := Classify(stripLine(text))
	if err != nil {
		return CompiledRule{}, false, errors.Wrapf(err, "classifying supplemental rule %q", text)
	}
	switch rr.Dir {
	case Forward, Bidirectional:
	default:
		return CompiledRule{}, true, nil
	}

	vars := NewVariableTable()
	if err := vars.Resolve(); err != nil {
		return CompiledRule{}, false, err
	}

	lhs, err := vars.Substitute(rr.LHS)
	if err != nil {
		return CompiledRule{}, false, err
	}
	rhs, err := vars.Substitute(rr.RHS)
	if err != nil {
		return CompiledRule{}, false, err
	}
	if ReferencesHanStart(lhs) || ReferencesHanStart(rhs) {
		return CompiledRule{}, true, nil
	}

	filter := charset.FullBMP(oracle)
	preCtx, body, postCtx := token.SplitContext(lhs)
	_, rhsBody, _ := token.SplitContext(rhs)
	if body == "" && preCtx == "" && postCtx == "" {
		return CompiledRule{}, true, nil
	}

	cr, err := buildCompiledRule(preCtx, body, postCtx, rhsBody, filter, oracle)
	if err != nil {
		return CompiledRule{}, false, errors.Wrapf(err, "compiling supplemental rule %q", text)
	}
	return cr, false, nil
}
