package rule

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Reserved variable names. Variables are textual macros, not a scoped
// binding form; these two are the only ones the compiler treats as
// opaque sentinels instead of expanding into code points — see the
// open question recorded in DESIGN.md about their exact spelling.
const (
	WordBoundaryVar = "$wordBoundary"
	HanStartVar     = "$hanStart"
)

var varRefPattern = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*`)

// VariableTable holds one transform file's $name -> raw-text bindings.
// Variables live for one file; callers create a fresh table per file.
type VariableTable struct {
	values map[string]string
}

// NewVariableTable returns an empty table.
func NewVariableTable() *VariableTable {
	return &VariableTable{values: make(map[string]string)}
}

// Set records (or overwrites) a variable's raw-text value.
func (t *VariableTable) Set(name, value string) {
	t.values[name] = value
}

// Resolve expands every $name reference in every bound value to a fixed
// point, then binds the two reserved sentinel variables (always to
// themselves, last, so they can never be expanded away) and returns an
// error if any variable's expansion cycles back on itself.
func (t *VariableTable) Resolve() error {
	const maxIterations = 64
	for i := 0; i < maxIterations; i++ {
		changed := false
		for name, value := range t.values {
			expanded, didExpand, err := t.expandOnce(name, value, map[string]bool{name: true})
			if err != nil {
				return err
			}
			if didExpand {
				t.values[name] = expanded
				changed = true
			}
		}
		if !changed {
			t.values[WordBoundaryVar] = WordBoundaryVar
			t.values[HanStartVar] = HanStartVar
			return nil
		}
	}
	return errors.Errorf("variable expansion did not converge after %d iterations (likely a cycle)", maxIterations)
}

func (t *VariableTable) expandOnce(name, value string, seen map[string]bool) (string, bool, error) {
	didExpand := false
	var expandErr error
	result := varRefPattern.ReplaceAllStringFunc(value, func(ref string) string {
		if ref == WordBoundaryVar || ref == HanStartVar {
			return ref
		}
		if seen[ref] {
			expandErr = errors.Errorf("cyclic variable reference involving %s", ref)
			return ref
		}
		inner, ok := t.values[ref]
		if !ok {
			expandErr = errors.Errorf("unresolved variable %s", ref)
			return ref
		}
		didExpand = true
		return inner
	})
	if expandErr != nil {
		return "", false, expandErr
	}
	return result, didExpand, nil
}

// Substitute replaces every $name reference in s with its resolved value.
// Resolve must have been called first; an unresolved reference is a
// ParseError.
func (t *VariableTable) Substitute(s string) (string, error) {
	var substErr error
	out := varRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		if ref == WordBoundaryVar || ref == HanStartVar {
			return ref
		}
		v, ok := t.values[ref]
		if !ok {
			substErr = errors.Errorf("unresolved variable %s", ref)
			return ref
		}
		return v
	})
	if substErr != nil {
		return "", substErr
	}
	return out, nil
}

// ReferencesHanStart reports whether s contains the Han-start sentinel
// after substitution.
func ReferencesHanStart(s string) bool {
	return strings.Contains(s, HanStartVar)
}
