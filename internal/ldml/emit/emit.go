// Package emit implements component G: deterministic serialization of the
// linearized rule/step/transform tables and the script->transliterator
// map to the output directory. No semantic decisions happen here —
// ordering and byte-escaping only.
package emit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"

	"github.com/aretext/ldmlcompile/internal/ldml/config"
	"github.com/aretext/ldmlcompile/internal/ldml/graph"
	"github.com/aretext/ldmlcompile/internal/ldml/rule"
)

const (
	rulesFileName  = "rules.tsv"
	scriptFileName = "scripts.tsv"
)

// WriteTables writes rules.tsv and scripts.tsv into outputDir, creating it
// if necessary, using renameio for atomic replacement — mirroring the
// teacher's file.Save pattern of writing to a temp file and renaming into
// place so a crash mid-write never leaves a truncated output file.
func WriteTables(outputDir string, l *graph.Linker, scriptMap config.ScriptMap) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", outputDir)
	}

	if err := writeRulesTable(filepath.Join(outputDir, rulesFileName), l); err != nil {
		return err
	}
	if err := writeScriptTable(filepath.Join(outputDir, scriptFileName), scriptMap); err != nil {
		return err
	}
	return nil
}

// writeRulesTable emits all_transforms, all_steps, and all_rules, each as
// its own block of tab-separated lines, in the order allocated by
// component F: transforms in reachable-set iteration order, steps and
// rules in step/rule allocation order.
func writeRulesTable(path string, l *graph.Linker) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return errors.Wrapf(err, "renameio.NewPendingFile %s", path)
	}
	defer pf.Cleanup()

	w := bufio.NewWriter(pf)

	fmt.Fprintf(w, "# transforms\t%d\n", len(l.AllTransforms))
	for _, t := range l.AllTransforms {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", escapeField(t.Name), t.InternalFlag, t.StepIndex, t.StepCount)
	}

	fmt.Fprintf(w, "# steps\t%d\n", len(l.AllSteps))
	for _, s := range l.AllSteps {
		fmt.Fprintf(w, "%d\t%d\t%s\n", s.RuleIndex, s.RuleCount, escapeField(s.Payload))
	}

	fmt.Fprintf(w, "# rules\t%d\n", len(l.AllRules))
	for _, r := range l.AllRules {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\t%d\t%s\t%d\t%s\n",
			escapeRunes(r.Key), len(r.Key),
			contextKindName(r.PreContextKind), escapeRunes(r.PreContext), r.PreContextMax,
			contextKindName(r.PostContextKind), escapeRunes(r.PostContext), r.PostContextMax,
			escapeRunes(r.Replacement))
	}

	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", path)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errors.Wrapf(err, "renameio.CloseAtomicallyReplace %s", path)
	}
	return nil
}

func contextKindName(k rule.ContextKind) string {
	switch k {
	case rule.ContextNone:
		return "none"
	case rule.ContextLiteral:
		return "literal"
	case rule.ContextWordBoundary:
		return "word-boundary"
	case rule.ContextRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// writeScriptTable emits script -> language -> ordered transliterator
// list, one line per (script, language) pair, sorted for determinism.
// "null" in the language column means the script's default entry.
func writeScriptTable(path string, scriptMap config.ScriptMap) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return errors.Wrapf(err, "renameio.NewPendingFile %s", path)
	}
	defer pf.Cleanup()

	w := bufio.NewWriter(pf)

	scripts := make([]string, 0, len(scriptMap))
	for s := range scriptMap {
		scripts = append(scripts, s)
	}
	sort.Strings(scripts)

	for _, script := range scripts {
		byLang := scriptMap[script]
		langs := make([]string, 0, len(byLang))
		for lang := range byLang {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		for _, lang := range langs {
			langField := lang
			if langField == "" {
				langField = "null"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", escapeField(script), escapeField(langField), strings.Join(byLang[lang], ","))
		}
	}

	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", path)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errors.Wrapf(err, "renameio.CloseAtomicallyReplace %s", path)
	}
	return nil
}

// escapeField escapes a plain string field for the tab-separated output:
// tabs, newlines, and backslashes are backslash-escaped so that a
// consuming reader can split on a bare tab unambiguously.
func escapeField(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeRunes renders a rune slice (a key/context/replacement string,
// which may contain reserved sentinel code points and arbitrary Unicode)
// as a byte-level-escaped sequence: printable ASCII other than the
// backslash passes through, everything else becomes a \u{XXXX} escape so the output is valid UTF-8
// text regardless of which sentinel or control code points appear.
func escapeRunes(runes []rune) string {
	var b strings.Builder
	for _, r := range runes {
		if r >= 0x20 && r < 0x7f && r != '\\' && r != '\t' {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, `\u{%x}`, r)
	}
	return b.String()
}
