// Package ucd adapts the Go runtime's built-in Unicode character database
// into the oracle shape the LDML compiler needs: property lookups by name,
// category/script/block/combining-class/word-break classification, and a
// stable enumeration of scripts. It is the sole place in this module that
// touches raw Unicode tables.
package ucd

import (
	"sort"
	"unicode"

	"github.com/pkg/errors"
)

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

// RangeSet is a sorted, non-overlapping list of code point ranges.
type RangeSet []Range

// Runes expands the set into a sorted slice of individual code points.
// Callers should only do this for sets they intend to intersect/union
// in the charset solver; it is not used for bulk classification.
func (s RangeSet) Runes() []rune {
	var out []rune
	for _, r := range s {
		for c := r.Lo; c <= r.Hi; c++ {
			out = append(out, c)
		}
	}
	return out
}

func fromRangeTable(t *unicode.RangeTable) RangeSet {
	var out RangeSet
	for _, r16 := range t.R16 {
		for c := rune(r16.Lo); c <= rune(r16.Hi); c += rune(r16.Stride) {
			out = append(out, Range{c, c})
			if r16.Stride == 1 {
				out[len(out)-1].Hi = rune(r16.Hi)
				break
			}
		}
	}
	for _, r32 := range t.R32 {
		for c := rune(r32.Lo); c <= rune(r32.Hi); c += rune(r32.Stride) {
			out = append(out, Range{c, c})
			if r32.Stride == 1 {
				out[len(out)-1].Hi = rune(r32.Hi)
				break
			}
		}
	}
	return coalesce(out)
}

func coalesce(in RangeSet) RangeSet {
	if len(in) == 0 {
		return in
	}
	sort.Slice(in, func(i, j int) bool { return in[i].Lo < in[j].Lo })
	out := RangeSet{in[0]}
	for _, r := range in[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// ScriptInfo is one entry in the stable script enumeration.
type ScriptInfo struct {
	Name string
	ID   int
}

// Oracle exposes the Unicode property surface the compiler depends on.
// Implementations may precompute and cache the tables they're built from.
type Oracle interface {
	CharsOfProperty(name, value string) (RangeSet, error)
	CanonicalizePropertyName(s string) string
	CanonicalizePropertyValue(name, s string) string
	Category(c rune) string
	CombiningClass(c rune) int
	Script(c rune) string
	Block(c rune) string
	WordBreak(c rune) string
	Scripts() []ScriptInfo
	ControlChars() RangeSet
}

// Std is the default Oracle, backed by the unicode package's tables plus
// the small set of CLDR-only properties (ideographic,
// logical_order_exception) and blocks that the stdlib does not expose.
type Std struct {
	scripts       []ScriptInfo
	scriptByName  map[string]int
	control       RangeSet
	twoLetterCats []string
	propByKey     map[string]string
}

// NewStd builds the default oracle. The result is immutable and safe to
// share across a run.
func NewStd() *Std {
	s := &Std{control: controlChars()}
	names := make([]string, 0, len(unicode.Scripts))
	for name := range unicode.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	s.scriptByName = make(map[string]int, len(names))
	for i, name := range names {
		s.scripts = append(s.scripts, ScriptInfo{Name: name, ID: i})
		s.scriptByName[canonKey(name)] = i
	}

	for name := range unicode.Categories {
		if len(name) == 2 {
			s.twoLetterCats = append(s.twoLetterCats, name)
		}
	}
	sort.Strings(s.twoLetterCats)

	s.propByKey = make(map[string]string, len(unicode.Properties))
	for name := range unicode.Properties {
		s.propByKey[canonKey(name)] = name
	}
	return s
}

func controlChars() RangeSet {
	return coalesce(RangeSet{
		{0x0000, 0x001F},
		{0x007F, 0x009F},
		{0xD800, 0xDFFF}, // surrogates
	})
}

func (s *Std) ControlChars() RangeSet { return s.control }

func (s *Std) Scripts() []ScriptInfo { return s.scripts }

// CharsOf Property resolves a property name/value pair to a code point set.
// Recognized name spaces, in priority order: general category
// (name == "" or name == "gc"/"general_category", value is the category
// alias), script (name == "sc"/"script"), block (name == "blk"/"block"),
// binary properties exposed by unicode.Properties, and the two CLDR-only
// properties "ideographic" and "logical_order_exception".
func (s *Std) CharsOfProperty(name, value string) (RangeSet, error) {
	propName := s.CanonicalizePropertyName(name)
	propValue := s.CanonicalizePropertyValue(propName, value)

	switch propName {
	case "", "gc":
		if t, ok := unicode.Categories[propValue]; ok {
			return fromRangeTable(t), nil
		}
		return nil, errors.Errorf("unknown general category %q", value)
	case "sc":
		if t, ok := unicode.Scripts[propValue]; ok {
			return fromRangeTable(t), nil
		}
		return nil, errors.Errorf("unknown script %q", value)
	case "blk":
		if rs, ok := blockRanges[propValue]; ok {
			return rs, nil
		}
		return nil, errors.Errorf("unknown block %q", value)
	case "ideographic":
		return ideographicRanges, nil
	case "logical_order_exception":
		return logicalOrderExceptionRanges, nil
	default:
		if key, ok := s.propByKey[canonKey(propValue)]; ok {
			return fromRangeTable(unicode.Properties[key]), nil
		}
		// A bare property name used as its own boolean value, e.g. \p{Alphabetic}.
		if key, ok := s.propByKey[canonKey(propName)]; ok {
			return fromRangeTable(unicode.Properties[key]), nil
		}
		return nil, errors.Errorf("unknown property %s=%s", name, value)
	}
}

func (s *Std) Category(c rune) string {
	for _, name := range s.twoLetterCats {
		if unicode.Is(unicode.Categories[name], c) {
			return name
		}
	}
	return "Cn"
}

// CombiningClass approximates the canonical combining class: zero for
// non-combining code points, a representative non-zero placeholder for
// combining marks. The oracle is a provided collaborator per the
// specification; CLDR rules only ever test this value against zero.
func (s *Std) CombiningClass(c rune) int {
	if unicode.Is(unicode.Mn, c) || unicode.Is(unicode.Me, c) {
		return 230
	}
	return 0
}

func (s *Std) Script(c rune) string {
	for _, info := range s.scripts {
		if unicode.Is(unicode.Scripts[info.Name], c) {
			return info.Name
		}
	}
	return "Unknown"
}

func (s *Std) Block(c rune) string {
	for name, rs := range blockRanges {
		for _, r := range rs {
			if c >= r.Lo && c <= r.Hi {
				return name
			}
		}
	}
	return "No_Block"
}

func (s *Std) WordBreak(c rune) string {
	switch {
	case unicode.Is(unicode.Scripts["Katakana"], c):
		return "Katakana"
	case unicode.IsLetter(c):
		return "ALetter"
	case unicode.IsNumber(c):
		return "Numeric"
	case c == '\'' || c == 0x2019:
		return "MidNumLet"
	case c == '_':
		return "ExtendNumLet"
	case unicode.IsSpace(c):
		return "WSegSpace"
	default:
		return "Other"
	}
}
