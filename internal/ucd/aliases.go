package ucd

import "strings"

// canonKey applies the loose-matching rule from UAX #44 §5.9: case, blanks,
// underscores and hyphens are insignificant when comparing property and
// value aliases.
func canonKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// propertyNameAliases maps short/long LDML property name aliases to the
// canonical short key used internally.
var propertyNameAliases = map[string]string{
	"generalcategory": "gc",
	"category":        "gc",
	"gc":              "gc",
	"script":          "sc",
	"sc":              "sc",
	"block":           "blk",
	"blk":             "blk",
	"ideographic":     "ideographic",
	"ideo":            "ideographic",
	"logicalorderexception": "logical_order_exception",
	"loe":                    "logical_order_exception",
}

// CanonicalizePropertyName maps a property name (possibly a long LDML
// alias) to its canonical short form.
func (s *Std) CanonicalizePropertyName(name string) string {
	if name == "" {
		return ""
	}
	key := canonKey(name)
	if canon, ok := propertyNameAliases[key]; ok {
		return canon
	}
	return key
}

// generalCategoryAliases maps long category names to the two-letter (or
// one-letter group) code used by unicode.Categories.
var generalCategoryAliases = map[string]string{
	"letter":                  "L",
	"uppercaseletter":         "Lu",
	"lowercaseletter":         "Ll",
	"titlecaseletter":         "Lt",
	"modifierletter":          "Lm",
	"otherletter":             "Lo",
	"mark":                    "M",
	"combiningmark":           "M",
	"nonspacingmark":          "Mn",
	"spacingmark":             "Mc",
	"enclosingmark":           "Me",
	"number":                  "N",
	"decimalnumber":           "Nd",
	"letternumber":            "Nl",
	"othernumber":             "No",
	"punctuation":             "P",
	"connectorpunctuation":    "Pc",
	"dashpunctuation":         "Pd",
	"openpunctuation":         "Ps",
	"closepunctuation":        "Pe",
	"initialpunctuation":      "Pi",
	"finalpunctuation":        "Pf",
	"otherpunctuation":        "Po",
	"symbol":                  "S",
	"mathsymbol":              "Sm",
	"currencysymbol":          "Sc",
	"modifiersymbol":          "Sk",
	"othersymbol":             "So",
	"separator":               "Z",
	"spaceseparator":          "Zs",
	"lineseparator":           "Zl",
	"paragraphseparator":      "Zp",
	"other":                   "C",
	"control":                 "Cc",
	"format":                  "Cf",
	"surrogate":               "Cs",
	"privateuse":              "Co",
	"unassigned":              "Cn",
}

// CanonicalizePropertyValue maps a property value alias to the key used by
// the underlying table for the given (already-canonicalized) property
// name.
func (s *Std) CanonicalizePropertyValue(name, value string) string {
	key := canonKey(value)
	switch name {
	case "", "gc":
		if code, ok := generalCategoryAliases[key]; ok {
			return code
		}
		// Already short form (e.g. "Ll", "L"): normalize casing.
		if len(value) == 1 {
			return strings.ToUpper(value)
		}
		if len(value) == 2 {
			return strings.ToUpper(value[:1]) + strings.ToLower(value[1:])
		}
		return value
	case "sc":
		if id, ok := s.scriptByName[key]; ok {
			return s.scripts[id].Name
		}
		return value
	case "blk":
		for name := range blockRanges {
			if canonKey(name) == key {
				return name
			}
		}
		return value
	default:
		return value
	}
}

// blockRanges is a representative subset of the Unicode block table; the
// stdlib unicode package does not expose blocks, and CLDR transform rules
// reference blocks rarely (mostly to disambiguate CJK sub-ranges), so this
// is not a full port of Blocks.txt.
var blockRanges = map[string]RangeSet{
	"Basic Latin":               {{0x0000, 0x007F}},
	"Latin-1 Supplement":        {{0x0080, 0x00FF}},
	"Latin Extended-A":          {{0x0100, 0x017F}},
	"Latin Extended-B":          {{0x0180, 0x024F}},
	"Greek and Coptic":          {{0x0370, 0x03FF}},
	"Cyrillic":                  {{0x0400, 0x04FF}},
	"Cyrillic Supplement":       {{0x0500, 0x052F}},
	"Armenian":                  {{0x0530, 0x058F}},
	"Hebrew":                    {{0x0590, 0x05FF}},
	"Arabic":                    {{0x0600, 0x06FF}},
	"Devanagari":                {{0x0900, 0x097F}},
	"Bengali":                   {{0x0980, 0x09FF}},
	"Gurmukhi":                  {{0x0A00, 0x0A7F}},
	"Tamil":                     {{0x0B80, 0x0BFF}},
	"Thai":                      {{0x0E00, 0x0E7F}},
	"Georgian":                  {{0x10A0, 0x10FF}},
	"Hangul Jamo":               {{0x1100, 0x11FF}},
	"Hiragana":                  {{0x3040, 0x309F}},
	"Katakana":                  {{0x30A0, 0x30FF}},
	"CJK Unified Ideographs":    {{0x4E00, 0x9FFF}},
	"Hangul Syllables":          {{0xAC00, 0xD7A3}},
	"CJK Compatibility Ideographs": {{0xF900, 0xFAFF}},
}

// ideographicRanges backs the CLDR-only "ideographic" property: the union
// of CJK ideograph blocks plus the small set of ideograph-adjacent marks
// CLDR treats as ideographic.
var ideographicRanges = RangeSet{
	{0x3006, 0x3007},
	{0x3021, 0x3029},
	{0x3038, 0x303A},
	{0x3400, 0x4DBF},
	{0x4E00, 0x9FFF},
	{0xF900, 0xFAFF},
	{0x20000, 0x2A6DF},
}

// logicalOrderExceptionRanges backs the CLDR-only
// "logical_order_exception" property: the small, closed set of Southeast
// Asian vowel signs that are stored in logical order but rendered before
// their base consonant (Thai, Lao, and related vowel-sign code points).
var logicalOrderExceptionRanges = RangeSet{
	{0x0E40, 0x0E44},
	{0x0EC0, 0x0EC4},
	{0x19B5, 0x19B7},
	{0x19BA, 0x19BA},
	{0xAAB5, 0xAAB6},
	{0xAAB9, 0xAAB9},
	{0xAABB, 0xAABC},
}
