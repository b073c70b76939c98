// Package normalize resolves the fixed set of normalization names a
// transform step may reference (NFD, NFKD, NFC, NFKC, lowercase,
// uppercase, titlecase, strip-combining-marks) to a canonical payload
// string for the emitted step record. The compiler never runs
// normalization itself; this package exists so the set of valid names is
// backed by a real Unicode library instead of a bare string switch, and so
// a test or downstream tool can actually apply a step when it wants golden
// output.
package normalize

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/pkg/errors"
)

// Name is a normalization step kind, matching the LDML pre-transform
// delegation names CLDR uses for Unicode normalization and simple casing.
type Name string

const (
	NFD                  Name = "NFD"
	NFKD                 Name = "NFKD"
	NFC                   Name = "NFC"
	NFKC                  Name = "NFKC"
	Lowercase             Name = "lowercase"
	Uppercase             Name = "uppercase"
	Titlecase             Name = "titlecase"
	StripCombiningMarks   Name = "strip-combining-marks"
)

// aliases maps the CLDR delegation spelling (e.g. "Any-Lower") to the
// canonical Name above, per UTF8PROC_TRANSFORMS-style mapping referenced
// in the specification's S4 scenario.
var aliases = map[string]Name{
	"any-nfd":    NFD,
	"nfd":        NFD,
	"any-nfkd":   NFKD,
	"nfkd":       NFKD,
	"any-nfc":    NFC,
	"nfc":        NFC,
	"any-nfkc":   NFKC,
	"nfkc":       NFKC,
	"any-lower":  Lowercase,
	"lower":      Lowercase,
	"any-upper":  Uppercase,
	"upper":      Uppercase,
	"any-title":  Titlecase,
	"title":      Titlecase,
	"nfd;nfc":    NFC,
}

// Resolve maps a pre-transform delegation name (case-insensitively) to a
// Name, reporting false when the name is not one of the normalization
// aliases above.
func Resolve(delegationName string) (Name, bool) {
	n, ok := aliases[canonKey(delegationName)]
	return n, ok
}

func canonKey(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// Apply runs the named normalization over s. It is not used by the
// compiler itself, but by tests that want to validate emitted rules
// against a real implementation.
func Apply(n Name, s string) (string, error) {
	switch n {
	case NFD:
		return norm.NFD.String(s), nil
	case NFKD:
		return norm.NFKD.String(s), nil
	case NFC:
		return norm.NFC.String(s), nil
	case NFKC:
		return norm.NFKC.String(s), nil
	case Lowercase:
		return cases.Lower(language.Und).String(s), nil
	case Uppercase:
		return cases.Upper(language.Und).String(s), nil
	case Titlecase:
		return cases.Title(language.Und).String(s), nil
	case StripCombiningMarks:
		return stripCombiningMarks(s), nil
	default:
		return "", errors.Errorf("unknown normalization %q", n)
	}
}

func stripCombiningMarks(s string) string {
	decomposed := norm.NFD.String(s)
	out := make([]rune, 0, len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
