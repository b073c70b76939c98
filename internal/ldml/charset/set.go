// Package charset implements the bracketed character-set grammar
// (component C of the compiler): parsing expressions like
// "[[:Latin:] & [:Ll:] - [а-я]]" into concrete, sorted code point sets
// under an ambient filter.
package charset

import (
	"sort"

	"github.com/aretext/ldmlcompile/internal/ldml/sentinel"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

// Set is a sorted, de-duplicated set of Unicode scalar values. Control
// and surrogate code points are always excluded from user-visible sets,
// per the data model in the specification.
type Set struct {
	runes      []rune // sorted, unique
	wordBoundary bool
}

// Filter is a Set used to scope the interpretation of subsequent rules
// within one transform file. It is just a Set; the name distinguishes its
// role at call sites the way the specification does.
type Filter = Set

// Empty returns the empty set.
func Empty() Set { return Set{} }

// FullBMP returns the initial filter: every BMP scalar value, control
// and surrogate code points excluded by NewFromRunes.
func FullBMP(oracle ucd.Oracle) Set {
	all := make([]rune, 0, 0x10000)
	for c := rune(0); c <= 0xFFFF; c++ {
		all = append(all, c)
	}
	return NewFromRunes(all, oracle)
}

// NewFromRunes builds a Set from an arbitrary (possibly unsorted,
// possibly duplicated) list of runes, excluding control/surrogate code
// points.
func NewFromRunes(runes []rune, oracle ucd.Oracle) Set {
	var s Set
	s.addAll(runes)
	s.subtractRangeSet(oracle.ControlChars())
	return s
}

func (s *Set) addAll(runes []rune) {
	s.runes = append(s.runes, runes...)
	s.normalize()
}

func (s *Set) normalize() {
	sort.Slice(s.runes, func(i, j int) bool { return s.runes[i] < s.runes[j] })
	out := s.runes[:0]
	var last rune = -1
	first := true
	for _, r := range s.runes {
		if !first && r == last {
			continue
		}
		out = append(out, r)
		last = r
		first = false
	}
	s.runes = out
}

// Contains reports whether c is a member of the set.
func (s Set) Contains(c rune) bool {
	i := sort.Search(len(s.runes), func(i int) bool { return s.runes[i] >= c })
	return i < len(s.runes) && s.runes[i] == c
}

// Len returns the number of distinct code points in the set (excluding
// the word-boundary sentinel flag, which is not a code point).
func (s Set) Len() int { return len(s.runes) }

// Runes returns the sorted member code points.
func (s Set) Runes() []rune { return s.runes }

// HasWordBoundary reports whether the set carries the word-boundary
// sentinel appended by a "$" token in the set expression.
func (s Set) HasWordBoundary() bool { return s.wordBoundary }

// Union returns the union of s and o.
func (s Set) Union(o Set) Set {
	out := append(append([]rune{}, s.runes...), o.runes...)
	var r Set
	r.addAll(out)
	r.wordBoundary = s.wordBoundary || o.wordBoundary
	return r
}

// Intersect returns the intersection of s and o.
func (s Set) Intersect(o Set) Set {
	var out []rune
	for _, c := range s.runes {
		if o.Contains(c) {
			out = append(out, c)
		}
	}
	var r Set
	r.addAll(out)
	return r
}

// Diff returns s minus o.
func (s Set) Diff(o Set) Set {
	var out []rune
	for _, c := range s.runes {
		if !o.Contains(c) {
			out = append(out, c)
		}
	}
	var r Set
	r.addAll(out)
	return r
}

// Complement returns filter \ s.
func (s Set) Complement(filter Set) Set {
	return filter.Diff(s)
}

func (s *Set) subtractRangeSet(rs ucd.RangeSet) {
	if len(s.runes) == 0 || len(rs) == 0 {
		return
	}
	out := s.runes[:0]
	for _, c := range s.runes {
		excluded := false
		for _, r := range rs {
			if c >= r.Lo && c <= r.Hi {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, c)
		}
	}
	s.runes = out
}

// WithWordBoundary returns a copy of s with the word-boundary sentinel
// flag set.
func (s Set) WithWordBoundary() Set {
	s.wordBoundary = true
	return s
}

// AppendSentinelIfNeeded appends the word-boundary sentinel code point to the
// emitted run of code points, if the flag is set. Callers that serialize
// a Set into a key/context byte string call this after Runes().
func (s Set) AppendSentinelIfNeeded(runes []rune) []rune {
	if s.wordBoundary {
		return append(runes, sentinel.WordBoundary)
	}
	return runes
}

// RunesWithSentinel returns the set's sorted members, with the
// word-boundary sentinel appended when the set carries that flag. This
// is the representation callers embed as a single slot's alternatives.
func (s Set) RunesWithSentinel() []rune {
	out := append([]rune{}, s.runes...)
	return s.AppendSentinelIfNeeded(out)
}
