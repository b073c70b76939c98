// Package graph implements component F: building the transform dependency
// graph from a directory of CLDR transform files, resolving delegation
// aliases, finding the set reachable from the Latin sinks, splicing in
// supplemental built-in rules, and allocating the final linearized
// rule/step/transform arrays that component G emits.
package graph

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/aretext/ldmlcompile/internal/ldml/config"
	"github.com/aretext/ldmlcompile/internal/ldml/rule"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

// skipList names transforms the linker never considers, regardless of
// reachability — CLDR ships them but no supported sink delegates to them.
var skipList = map[string]bool{
	"hangul-latin":     true,
	"interindic-latin": true,
	"jamo-latin":       true,
	"han-spacedhan":    true,
}

// isSink reports whether a transform's target identifier makes it an
// initial reachability root: anything targeting "latin", plus the
// distinguished "latin-ascii" transform.
func isSink(name, target string) bool {
	return target == "latin" || name == "latin-ascii"
}

// MissingDependency is logged, not fatal: a delegation names a transform
// that resolves to neither a file nor a built-in nor an alias.
type MissingDependency struct {
	From string
	To   string
}

func (e *MissingDependency) Error() string {
	return "missing dependency: " + e.From + " -> " + e.To
}

// UnreachableTransform is dropped silently per spec, but recorded here so
// a verbose run can still log it.
type UnreachableTransform struct {
	Name string
}

func (e *UnreachableTransform) Error() string {
	return "unreachable transform: " + e.Name
}

// fileEntry is one parsed transform file plus its derived names.
type fileEntry struct {
	canonical string // lowercase "source-target"
	pf        *rule.ParsedFile
	target    string
}

// Linker owns one run's transform graph: the parsed files, the alias
// table, the dependency edges, and (after Link) the reachable set and
// linearized output arrays.
type Linker struct {
	Oracle  ucd.Oracle
	RuleMap map[string]string
	Verbose bool

	entries map[string]*fileEntry // canonical name -> entry
	deps    map[string][]string  // canonical name -> delegation targets (raw, unresolved)

	Missing     []MissingDependency
	Unreachable []UnreachableTransform

	AllRules      []rule.CompiledRule
	AllSteps      []StepRecord
	AllTransforms []TransformRecord
}

// StepRecord is one linearized step: for a ruleset step, RuleIndex/RuleCount
// index into AllRules; for a delegation or normalization step,
// RuleIndex/RuleCount are both -1 and Payload carries the delegate name or
// normalization step name.
type StepRecord struct {
	RuleIndex int
	RuleCount int
	Payload   string
}

// TransformRecord is one linearized transform: InternalFlag is 0 iff the
// transform is a direct sink (latin target or latin-ascii).
type TransformRecord struct {
	Name         string
	InternalFlag int
	StepIndex    int
	StepCount    int
}

// NewLinker constructs an empty Linker for one compiler run.
func NewLinker(oracle ucd.Oracle, ruleMap map[string]string, verbose bool) *Linker {
	return &Linker{
		Oracle:  oracle,
		RuleMap: ruleMap,
		Verbose: verbose,
		entries: make(map[string]*fileEntry),
		deps:    make(map[string][]string),
	}
}

// LoadDir walks dir for transform XML files (component F step 1), parsing
// each and recording its delegation edges (step 4). Files are visited in
// directory-listing order, sorted, for deterministic diagnostics.
func (l *Linker) LoadDir(dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "walking transform directory %s", dir)
	}
	sort.Strings(paths)

	parser := &rule.Parser{Oracle: l.Oracle, RuleMap: l.RuleMap, Verbose: l.Verbose}

	for _, path := range paths {
		tf, err := rule.LoadTransformFile(path)
		if err != nil {
			return errors.Wrapf(err, "loading transform file %s", path)
		}
		canonical := strings.ToLower(tf.Source + "-" + tf.Target)
		if skipList[canonical] {
			continue
		}

		pf, err := parser.ParseFile(tf)
		if err != nil {
			return errors.Wrapf(err, "parsing transform file %s", path)
		}

		entry := &fileEntry{canonical: canonical, pf: pf, target: strings.ToLower(tf.Target)}
		l.entries[canonical] = entry

		for _, step := range pf.Steps {
			if step.Kind == rule.StepDelegate {
				l.deps[canonical] = append(l.deps[canonical], strings.ToLower(step.DelegateName))
			}
		}
	}
	return nil
}

// sinkNames returns the canonical names of every loaded transform that
// qualifies as an initial reachability root (step 5).
func (l *Linker) sinkNames() []string {
	var sinks []string
	names := make([]string, 0, len(l.entries))
	for name := range l.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if isSink(name, l.entries[name].target) {
			sinks = append(sinks, name)
		}
	}
	return sinks
}

// resolve maps a raw delegation name to a canonical entry name by looking
// up its lowercased form among the loaded "source-target" names; no other
// alias form is tried.
func (l *Linker) resolve(name string) (string, bool) {
	name = strings.ToLower(name)
	if _, ok := l.entries[name]; ok {
		return name, true
	}
	return "", false
}

// Link runs component F steps 5-8: BFS reachability from the Latin sinks,
// supplemental splicing, and linearized array allocation.
func (l *Linker) Link(supplement []config.SupplementalRule) error {
	reachable := make(map[string]bool)
	queue := l.sinkNames()
	for _, s := range queue {
		reachable[s] = true
	}

	for i := 0; i < len(queue); i++ {
		name := queue[i]
		for _, dep := range l.deps[name] {
			resolved, ok := l.resolve(dep)
			if !ok {
				l.Missing = append(l.Missing, MissingDependency{From: name, To: dep})
				continue
			}
			if !reachable[resolved] {
				reachable[resolved] = true
				queue = append(queue, resolved)
			}
		}
	}

	var allNames []string
	for name := range l.entries {
		allNames = append(allNames, name)
	}
	sort.Strings(allNames)
	for _, name := range allNames {
		if !reachable[name] {
			l.Unreachable = append(l.Unreachable, UnreachableTransform{Name: name})
		}
	}

	supplementByTransform := make(map[string][]config.SupplementalRule)
	for _, s := range supplement {
		key := strings.ToLower(s.Transform)
		supplementByTransform[key] = append(supplementByTransform[key], s)
	}

	sinkSet := make(map[string]bool)
	for _, s := range l.sinkNames() {
		sinkSet[s] = true
	}

	for _, name := range queue {
		entry := l.entries[name]
		steps := entry.pf.Steps

		for _, supp := range supplementByTransform[name] {
			rules, err := parseSupplementalRules(supp.Rules, l.Oracle)
			if err != nil {
				return errors.Wrapf(err, "supplemental rules for %s", name)
			}
			switch supp.AttachMode {
			case config.AttachAppendToLastStep:
				steps = appendToLastRulesetStep(steps, entry.pf.Source+"-"+entry.pf.Target, rules)
			case config.AttachNewStep:
				steps = append(steps, rule.ParsedStep{
					Kind:  rule.StepRuleset,
					Label: entry.pf.Source + "-" + entry.pf.Target + "-supplement",
					Rules: rules,
				})
			default:
				return errors.Errorf("unknown attach mode %q for transform %s", supp.AttachMode, name)
			}
		}

		stepIndex := len(l.AllSteps)
		for _, step := range steps {
			switch step.Kind {
			case rule.StepRuleset:
				ruleIndex := len(l.AllRules)
				l.AllRules = append(l.AllRules, step.Rules...)
				l.AllSteps = append(l.AllSteps, StepRecord{RuleIndex: ruleIndex, RuleCount: len(step.Rules), Payload: step.Label})
			case rule.StepDelegate:
				l.AllSteps = append(l.AllSteps, StepRecord{RuleIndex: -1, RuleCount: -1, Payload: step.DelegateName})
			case rule.StepNormalize:
				l.AllSteps = append(l.AllSteps, StepRecord{RuleIndex: -1, RuleCount: -1, Payload: string(step.NormalizeName)})
			}
		}

		internalFlag := 1
		if sinkSet[name] {
			internalFlag = 0
		}
		l.AllTransforms = append(l.AllTransforms, TransformRecord{
			Name:         name,
			InternalFlag: internalFlag,
			StepIndex:    stepIndex,
			StepCount:    len(steps),
		})
	}

	return nil
}

// appendToLastRulesetStep appends rules to the last ruleset step of steps,
// or creates a new trailing ruleset step if none exists yet.
func appendToLastRulesetStep(steps []rule.ParsedStep, label string, rules []rule.CompiledRule) []rule.ParsedStep {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Kind == rule.StepRuleset {
			steps[i].Rules = append(steps[i].Rules, rules...)
			return steps
		}
	}
	return append(steps, rule.ParsedStep{Kind: rule.StepRuleset, Label: label, Rules: rules})
}
