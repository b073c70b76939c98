// Package rule implements the per-file LDML rule parser (component D) and
// rule compiler (component E): extracting raw rule lines from a
// transform file, expanding variables to a fixed point, splitting each
// rule into context/key/replacement, building slots and groups, and
// flattening the result into the emittable CompiledRule record.
package rule

import "github.com/aretext/ldmlcompile/internal/ldml/sentinel"

// Direction is the directionality tag a raw rule line carries.
type Direction int

const (
	PreTransform Direction = iota
	Forward
	Backward
	Bidirectional
	Assignment
)

// RawRule is one line from a transform file, already stripped of its
// trailing ';' and any '#' comment.
type RawRule struct {
	Dir Direction

	// Valid when Dir == PreTransform: exactly one of FilterExpr (a
	// "[...]" charset expression) or Delegate (another transform's name,
	// from "::OtherName") is set.
	FilterExpr string
	Delegate   string

	// Valid when Dir is Forward/Backward/Bidirectional: the raw,
	// variable-unsubstituted lvalue and rvalue text.
	LHS, RHS string

	Text string // original line, for diagnostics
}

// Slot is one position in a ParsedSide. Most slots hold exactly one
// rune (a literal character or a sentinel). A slot built from a
// resolved character-set alternation holds every alternative; Flatten
// wraps those in the begin/end-set sentinels. The one exception is a
// slot built from a numeric back-reference ($N), which holds exactly two
// runes — the group-indicator sentinel followed by an ASCII digit — that
// must be spliced verbatim, never treated as alternatives.
type Slot struct {
	Alts     []rune
	GroupRef bool
}

// Flatten returns the rune sequence this slot contributes to the
// flattened key/context/replacement string.
func (s Slot) Flatten() []rune {
	if s.GroupRef || len(s.Alts) <= 1 {
		return s.Alts
	}
	out := make([]rune, 0, len(s.Alts)+2)
	out = append(out, sentinel.BeginSet)
	out = append(out, s.Alts...)
	out = append(out, sentinel.EndSet)
	return out
}

func literalSlot(r rune) Slot { return Slot{Alts: []rune{r}} }

// Group is a half-open range [Start, End) over a ParsedSide's Slots,
// identifying a capture group.
type Group struct {
	Start, End int
}

// ParsedSide is a sequence of character slots produced by tokenizing and
// resolving one non-empty segment (pre-context, key, post-context, or
// replacement) of a rule.
type ParsedSide struct {
	Slots         []Slot
	Groups        []Group
	RevisitOffset int // only meaningful for the replacement side
}

// Flatten concatenates every slot's contribution in order.
func (p ParsedSide) Flatten() []rune {
	var out []rune
	for _, s := range p.Slots {
		out = append(out, s.Flatten()...)
	}
	return out
}

// ContextKind classifies a pre- or post-context, determined structurally
// from its parsed content.
type ContextKind int

const (
	ContextNone ContextKind = iota
	ContextLiteral
	ContextWordBoundary
	ContextRegex
)

// Context is one side's pre- or post-context.
type Context struct {
	Kind ContextKind
	Side ParsedSide
}

// ClassifyContext determines a Context's Kind from its tokenized slots.
// A context is word-boundary when it is exactly the word-boundary
// sentinel; literal when every slot is a single, non-alternating rune;
// regex-like when any slot carries more than one alternative (i.e. came
// from an unescaped "[...]" character-set reference).
func ClassifyContext(side ParsedSide) ContextKind {
	if len(side.Slots) == 0 {
		return ContextNone
	}
	if len(side.Slots) == 1 && len(side.Slots[0].Alts) == 1 && side.Slots[0].Alts[0] == sentinel.WordBoundary {
		return ContextWordBoundary
	}
	for _, s := range side.Slots {
		if len(s.Alts) > 1 {
			return ContextRegex
		}
	}
	return ContextLiteral
}

// CompiledRule is the emittable record the runtime consumes: a key plus
// optional pre/post contexts, capture groups, a replacement, and a
// revisit offset.
type CompiledRule struct {
	Key []rune

	PreContextKind ContextKind
	PreContext     []rune
	PreContextMax  int // byte/rune length after flattening alternations

	PostContextKind ContextKind
	PostContext     []rune
	PostContextMax  int

	Groups []Group

	Replacement []rune

	RevisitOffset int

	Label string // human-readable label, for ruleset-step diagnostics
}
