package rule

import (
	"strings"

	"github.com/pkg/errors"
)

// Classify determines a raw line's shape: pre-transform ("::Name" or
// "::[filter]"), assignment ("$var = rhs"), or transform
// ("lhs op rhs", op one of >, <, <>, →, ←, ↔), in that priority order.
func Classify(line string) (RawRule, error) {
	rr := RawRule{Text: line}

	if strings.HasPrefix(line, "::") {
		body := strings.TrimSpace(strings.TrimPrefix(line, "::"))
		rr.Dir = PreTransform
		if strings.HasPrefix(body, "[") {
			rr.FilterExpr = body
		} else if strings.HasPrefix(body, "(") {
			rr.Delegate = strings.TrimSuffix(strings.TrimPrefix(body, "("), ")")
		} else if idx := strings.IndexByte(body, '('); idx >= 0 {
			// e.g. "NFD (NFC)": the parenthesized text is the reverse
			// delegation, not part of the forward one; keep only the
			// part before it.
			rr.Delegate = strings.TrimSpace(body[:idx])
		} else {
			rr.Delegate = body
		}
		return rr, nil
	}

	if strings.HasPrefix(line, "$") {
		if eq := findTopLevelAssign(line); eq >= 0 {
			name := strings.TrimSpace(line[:eq])
			rhs := strings.TrimSpace(line[eq+1:])
			if isVarName(name) {
				rr.Dir = Assignment
				rr.LHS = name
				rr.RHS = rhs
				return rr, nil
			}
		}
	}

	idx, opLen, dir, found := findTopLevelOperator(line)
	if !found {
		return RawRule{}, errors.Errorf("unrecognized rule shape: %q", line)
	}
	rr.Dir = dir
	rr.LHS = strings.TrimSpace(line[:idx])
	rr.RHS = strings.TrimSpace(line[idx+opLen:])
	return rr, nil
}

func isVarName(s string) bool {
	if len(s) < 2 || s[0] != '$' {
		return false
	}
	for i, r := range s[1:] {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}

func findTopLevelAssign(line string) int {
	depth := 0
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '\'':
			inQuote = !inQuote
		case '[':
			if !inQuote {
				depth++
			}
		case ']':
			if !inQuote && depth > 0 {
				depth--
			}
		case '=':
			if !inQuote && depth == 0 {
				return i
			}
		}
	}
	return -1
}

// operatorSpec is one recognized transform-rule operator.
type operatorSpec struct {
	text string
	dir  Direction
}

var operators = []operatorSpec{
	{"<>", Bidirectional},
	{"↔", Bidirectional}, // ↔
	{"→", Forward},       // →
	{"←", Backward},      // ←
	{">", Forward},
	{"<", Backward},
}

// findTopLevelOperator finds the first rule operator occurring outside
// brackets and quotes, preferring the longest match at each position
// (so "<>" is not misread as "<" followed by ">").
func findTopLevelOperator(line string) (idx int, opLen int, dir Direction, found bool) {
	depth := 0
	inQuote := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
			continue
		case '\'':
			inQuote = !inQuote
			continue
		case '[':
			if !inQuote {
				depth++
			}
			continue
		case ']':
			if !inQuote && depth > 0 {
				depth--
			}
			continue
		}
		if inQuote || depth > 0 {
			continue
		}
		rest := string(runes[i:])
		for _, op := range operators {
			if strings.HasPrefix(rest, op.text) {
				byteIdx := len(string(runes[:i]))
				return byteIdx, len(op.text), op.dir, true
			}
		}
	}
	return 0, 0, 0, false
}
