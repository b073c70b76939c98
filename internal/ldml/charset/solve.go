package charset

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/aretext/ldmlcompile/internal/ldml/token"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

type operator int

const (
	opUnion operator = iota
	opIntersect
	opDiff
)

// Solve resolves a bracketed character-set expression, e.g.
// "[[:Latin:] & [:Ll:] - [а-я]]", into a concrete Set, under the given
// ambient filter. Intersection and difference bind to the most recently
// assembled operand and apply immediately on encountering the next
// operand — they are not general infix operators with precedence, and
// consecutive "&"/"-" tokens overwrite the pending operator, matching
// LDML's own (left-to-right, not algebraic) semantics.
func Solve(expr string, filter Filter, oracle ucd.Oracle) (Set, error) {
	trimmed := strings.TrimSpace(expr)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return Set{}, errors.Errorf("charset expression missing outer brackets: %q", expr)
	}
	body := trimmed[1 : len(trimmed)-1]

	toks, err := token.ScanCharset(body)
	if err != nil {
		return Set{}, errors.Wrapf(err, "scanning charset %q", expr)
	}
	return solveTokens(toks, filter, oracle)
}

func solveTokens(toks []token.Token, filter Filter, oracle ucd.Oracle) (Set, error) {
	var group, realChars Set
	negated := false
	wordBoundary := false
	pendingOp := opUnion

	apply := func(operand Set, isReal bool) {
		switch pendingOp {
		case opIntersect:
			group = group.Intersect(operand)
		case opDiff:
			group = group.Diff(operand)
		default:
			group = group.Union(operand)
		}
		if isReal {
			realChars = realChars.Union(operand)
		}
		pendingOp = opUnion
	}

	i := 0
	for i < len(toks) {
		t := toks[i]
		switch t.Kind {
		case token.Negate:
			if i == 0 {
				negated = true
			}
			i++

		case token.Intersect:
			pendingOp = opIntersect
			i++

		case token.Difference:
			pendingOp = opDiff
			i++

		case token.WordBoundaryMark:
			wordBoundary = true
			i++

		case token.Char:
			if i+2 < len(toks) && toks[i+1].Kind == token.RangeDash && toks[i+2].Kind == token.Char {
				apply(literalRange(t.Rune, toks[i+2].Rune, oracle), false)
				i += 3
			} else {
				apply(literalRunes([]rune{t.Rune}, oracle), true)
				i++
			}

		case token.QuotedString, token.BracketedChar:
			apply(literalRunes([]rune(t.Str), oracle), true)
			i++

		case token.PosixClass:
			rs, err := resolveProperty(t.Str, oracle)
			if err != nil {
				return Set{}, err
			}
			apply(fromRangeSet(rs), false)
			i++

		case token.PCREProperty:
			rs, err := resolvePCRE(t.Str, oracle)
			if err != nil {
				return Set{}, err
			}
			apply(fromRangeSet(rs), false)
			i++

		case token.OpenSet:
			j, err := matchingClose(toks, i)
			if err != nil {
				return Set{}, err
			}
			sub, err := solveTokens(toks[i+1:j], filter, oracle)
			if err != nil {
				return Set{}, err
			}
			apply(sub, false)
			i = j + 1

		case token.CloseSet:
			return Set{}, errors.Errorf("unbalanced ']' in charset expression")

		default:
			return Set{}, errors.Errorf("unexpected token %v in charset expression", t)
		}
	}

	var result Set
	if negated {
		result = filter.Diff(group)
	} else {
		result = group
	}

	allowed := filter.Union(realChars)
	result = result.Intersect(allowed)
	result = result.subtractControlChars(oracle)

	if wordBoundary {
		result = result.WithWordBoundary()
	}
	return result, nil
}

func (s Set) subtractControlChars(oracle ucd.Oracle) Set {
	s.subtractRangeSet(oracle.ControlChars())
	return s
}

func matchingClose(toks []token.Token, open int) (int, error) {
	depth := 1
	for j := open + 1; j < len(toks); j++ {
		switch toks[j].Kind {
		case token.OpenSet:
			depth++
		case token.CloseSet:
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return 0, errors.Errorf("unbalanced '[' in charset expression")
}

func literalRange(lo, hi rune, oracle ucd.Oracle) Set {
	if hi < lo {
		lo, hi = hi, lo
	}
	runes := make([]rune, 0, hi-lo+1)
	for c := lo; c <= hi; c++ {
		runes = append(runes, c)
	}
	return literalRunes(runes, oracle)
}

func literalRunes(runes []rune, oracle ucd.Oracle) Set {
	var s Set
	s.addAll(runes)
	return s
}

func fromRangeSet(rs ucd.RangeSet) Set {
	var s Set
	s.addAll(rs.Runes())
	return s
}

func resolveProperty(name string, oracle ucd.Oracle) (ucd.RangeSet, error) {
	if rs, err := oracle.CharsOfProperty("sc", name); err == nil {
		return rs, nil
	}
	if rs, err := oracle.CharsOfProperty("", name); err == nil {
		return rs, nil
	}
	if rs, err := oracle.CharsOfProperty("blk", name); err == nil {
		return rs, nil
	}
	return oracle.CharsOfProperty(name, "")
}

func resolvePCRE(expr string, oracle ucd.Oracle) (ucd.RangeSet, error) {
	if idx := strings.IndexByte(expr, '='); idx >= 0 {
		return oracle.CharsOfProperty(expr[:idx], expr[idx+1:])
	}
	return resolveProperty(expr, oracle)
}
