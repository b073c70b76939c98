package rule

import (
	"github.com/pkg/errors"

	"github.com/aretext/ldmlcompile/internal/ldml/charset"
	"github.com/aretext/ldmlcompile/internal/ldml/sentinel"
	"github.com/aretext/ldmlcompile/internal/ldml/token"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

// segPiece is one chunk of a rule segment, split at top-level bracket
// boundaries so that bracketed character-set expressions can be handed
// to the charset solver as their own, uninterpreted sub-expression text
// (escapes and quotes already having been taken into account while
// finding the bracket's matching close).
type segPiece struct {
	bracket bool
	text    string
}

// splitBrackets walks raw segment text and splits it into alternating
// literal and bracketed pieces. It tracks backslash escapes and
// single-quoted regions so that an escaped or quoted '[' does not start
// a bracket span.
func splitBrackets(s string) ([]segPiece, error) {
	var pieces []segPiece
	var lit []rune
	runes := []rune(s)
	i := 0
	flushLit := func() {
		if len(lit) > 0 {
			pieces = append(pieces, segPiece{text: string(lit)})
			lit = nil
		}
	}

	for i < len(runes) {
		switch {
		case runes[i] == '\\' && i+1 < len(runes):
			lit = append(lit, runes[i], runes[i+1])
			i += 2

		case runes[i] == '\'':
			lit = append(lit, runes[i])
			i++
			for i < len(runes) {
				if runes[i] == '\'' && i+1 < len(runes) && runes[i+1] == '\'' {
					lit = append(lit, runes[i], runes[i+1])
					i += 2
					continue
				}
				lit = append(lit, runes[i])
				i++
				if runes[i-1] == '\'' {
					break
				}
			}

		case runes[i] == '[':
			flushLit()
			start := i
			depth := 0
			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) {
					i += 2
					continue
				}
				if runes[i] == '[' {
					depth++
				} else if runes[i] == ']' {
					depth--
					if depth == 0 {
						i++
						break
					}
				}
				i++
			}
			if depth != 0 {
				return nil, errors.Errorf("unbalanced '[' in %q", s)
			}
			pieces = append(pieces, segPiece{bracket: true, text: string(runes[start:i])})

		default:
			lit = append(lit, runes[i])
			i++
		}
	}
	flushLit()
	return pieces, nil
}

// BuildParsedSide tokenizes one non-empty rule segment into a ParsedSide:
// slots, capture groups, and (for replacement sides) the revisit offset.
func BuildParsedSide(raw string, filter charset.Filter, oracle ucd.Oracle) (ParsedSide, error) {
	pieces, err := splitBrackets(raw)
	if err != nil {
		return ParsedSide{}, err
	}

	var side ParsedSide
	var groupStack []int
	revisitSeen := false

	// appendSlot appends a slot without affecting the revisit offset;
	// appendCountedSlot additionally counts it as one revisit unit once a
	// '|' has been seen. Only escaped/plain characters and group refs
	// count; bracketed character-set slots, HTML entities, and
	// repeat/plus slots never do, and a quoted string counts as a single
	// unit regardless of its length — matching char_permutations' move
	// counter, which increments once per scanned token for exactly
	// {ESCAPED_CHARACTER, CHAR_CLASS, QUOTED_STRING, CHARACTER, GROUP_REF}
	// and never for CLOSE_SET, HTML_ENTITY, REPEAT, or PLUS.
	appendSlot := func(s Slot) {
		side.Slots = append(side.Slots, s)
	}
	appendCountedSlot := func(s Slot) {
		appendSlot(s)
		if revisitSeen {
			side.RevisitOffset++
		}
	}

	for _, p := range pieces {
		if p.bracket {
			set, err := charset.Solve(p.text, filter, oracle)
			if err != nil {
				return ParsedSide{}, err
			}
			appendSlot(Slot{Alts: set.RunesWithSentinel()})
			continue
		}

		toks, err := token.ScanRValue(p.text)
		if err != nil {
			return ParsedSide{}, err
		}

		for _, t := range toks {
			switch t.Kind {
			case token.Char:
				appendCountedSlot(literalSlot(t.Rune))

			case token.HTMLEntity:
				appendSlot(literalSlot(t.Rune))

			case token.QuotedString:
				if revisitSeen {
					side.RevisitOffset++
				}
				for _, r := range t.Str {
					appendSlot(literalSlot(r))
				}

			case token.GroupRef:
				appendCountedSlot(Slot{Alts: []rune{sentinel.GroupIndicator, t.Rune}, GroupRef: true})

			case token.RepeatStar:
				appendSlot(literalSlot(sentinel.RepeatZero))

			case token.RepeatPlus:
				appendSlot(literalSlot(sentinel.RepeatOne))

			case token.Optional:
				if len(side.Slots) == 0 {
					return ParsedSide{}, errors.Errorf("'?' with no preceding slot in %q", raw)
				}
				last := &side.Slots[len(side.Slots)-1]
				last.Alts = append(last.Alts, sentinel.EmptyTransition)

			case token.OpenGroup:
				groupStack = append(groupStack, len(side.Slots))

			case token.CloseGroup:
				if len(groupStack) == 0 {
					return ParsedSide{}, errors.Errorf("unbalanced ')' in %q", raw)
				}
				start := groupStack[len(groupStack)-1]
				groupStack = groupStack[:len(groupStack)-1]
				side.Groups = append(side.Groups, Group{Start: start, End: len(side.Slots)})

			case token.Revisit:
				revisitSeen = true

			default:
				return ParsedSide{}, errors.Errorf("unexpected token %v while building slots for %q", t, raw)
			}
		}
	}

	if len(groupStack) != 0 {
		return ParsedSide{}, errors.Errorf("unbalanced '(' in %q", raw)
	}
	for _, g := range side.Groups {
		if g.Start < 0 || g.End > len(side.Slots) || g.Start > g.End {
			return ParsedSide{}, errors.Errorf("group [%d,%d) out of range for %d slots", g.Start, g.End, len(side.Slots))
		}
	}

	return side, nil
}
