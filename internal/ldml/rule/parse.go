package rule

import (
	"fmt"
	"log"

	"github.com/aretext/ldmlcompile/internal/ldml/charset"
	"github.com/aretext/ldmlcompile/internal/ldml/token"
	"github.com/aretext/ldmlcompile/internal/normalize"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

// StepKind identifies which of the three Step variants a ParsedStep is.
type StepKind int

const (
	StepRuleset StepKind = iota
	StepDelegate
	StepNormalize
)

// ParsedStep is one step produced by parsing a transform file, before
// the linker (component F) resolves delegations and allocates the final
// linearized arrays.
type ParsedStep struct {
	Kind StepKind

	Label string         // StepRuleset
	Rules []CompiledRule // StepRuleset

	DelegateName string // StepDelegate

	NormalizeName normalize.Name // StepNormalize
}

// ParsedFile is the result of parsing one transform file: its
// source/target identifiers and ordered step list.
type ParsedFile struct {
	Source string
	Target string
	Steps  []ParsedStep
}

// Parser holds the run-wide inputs component D needs beyond a single
// file's own content: the Unicode oracle and the hardcoded textual
// rule-map substitutions.
type Parser struct {
	Oracle  ucd.Oracle
	RuleMap map[string]string
	Verbose bool
}

// ParseFile runs the full per-file pipeline described in the
// specification's component D: extract rule lines (already done by
// LoadTransformFile), substitute rule-map entries, classify lines,
// resolve variables to a fixed point, then replay the rules in order,
// tracking the ambient filter and emitting ruleset/delegate/normalize
// steps.
func (p *Parser) ParseFile(tf *TransformFile) (*ParsedFile, error) {
	vars := NewVariableTable()
	var ordered []RawRule

	for _, raw := range tf.Lines {
		line := raw
		if repl, ok := p.RuleMap[line]; ok {
			line = repl
		}
		rr, err := Classify(line)
		if err != nil {
			return nil, &ParseError{File: tf.Source + "-" + tf.Target, Rule: raw, Err: err}
		}
		if rr.Dir == Assignment {
			vars.Set(rr.LHS, rr.RHS)
			continue
		}
		ordered = append(ordered, rr)
	}

	if err := vars.Resolve(); err != nil {
		return nil, &ParseError{File: tf.Source + "-" + tf.Target, Err: err}
	}

	pf := &ParsedFile{Source: tf.Source, Target: tf.Target}
	filter := charset.FullBMP(p.Oracle)

	var currentRules []CompiledRule
	var currentLabel string
	flush := func() {
		if len(currentRules) > 0 {
			pf.Steps = append(pf.Steps, ParsedStep{Kind: StepRuleset, Label: currentLabel, Rules: currentRules})
		}
		currentRules = nil
		currentLabel = ""
	}

	for _, rr := range ordered {
		switch rr.Dir {
		case PreTransform:
			if rr.FilterExpr != "" {
				set, err := charset.Solve(rr.FilterExpr, filter, p.Oracle)
				if err != nil {
					return nil, &ParseError{File: tf.Source + "-" + tf.Target, Rule: rr.Text, Err: err}
				}
				filter = set
				continue
			}
			flush()
			if name, ok := normalize.Resolve(rr.Delegate); ok {
				pf.Steps = append(pf.Steps, ParsedStep{Kind: StepNormalize, NormalizeName: name})
			} else {
				pf.Steps = append(pf.Steps, ParsedStep{Kind: StepDelegate, DelegateName: rr.Delegate})
			}

		case Backward:
			p.logIgnored(tf, rr.Text, ReasonBackwardOnly)

		case Forward, Bidirectional:
			cr, skip, reason, err := p.compileRule(tf, rr, filter, vars)
			if err != nil {
				return nil, err
			}
			if skip {
				p.logIgnored(tf, rr.Text, reason)
				continue
			}
			if currentLabel == "" {
				currentLabel = fmt.Sprintf("%s-%s", tf.Source, tf.Target)
			}
			currentRules = append(currentRules, cr)
		}
	}
	flush()

	return pf, nil
}

func (p *Parser) logIgnored(tf *TransformFile, text string, reason IgnorableReason) {
	ir := &IgnorableRule{File: tf.Source + "-" + tf.Target, Rule: text, Reason: reason}
	if p.Verbose {
		log.Printf("%v", ir)
	}
}

// compileRule implements the per-rule portion of component D step 7:
// substitute variables, drop Han-start references, split each side into
// pre/body/post, tokenize, and (via buildCompiledRule) hand off to
// component E.
func (p *Parser) compileRule(tf *TransformFile, rr RawRule, filter charset.Filter, vars *VariableTable) (CompiledRule, bool, IgnorableReason, error) {
	label := tf.Source + "-" + tf.Target

	lhs, err := vars.Substitute(rr.LHS)
	if err != nil {
		return CompiledRule{}, false, 0, &ParseError{File: label, Rule: rr.Text, Err: err}
	}
	rhs, err := vars.Substitute(rr.RHS)
	if err != nil {
		return CompiledRule{}, false, 0, &ParseError{File: label, Rule: rr.Text, Err: err}
	}

	if ReferencesHanStart(lhs) || ReferencesHanStart(rhs) {
		return CompiledRule{}, true, ReasonHanStart, nil
	}

	lhsPre, lhsBody, lhsPost := token.SplitContext(lhs)
	_, rhsBody, _ := token.SplitContext(rhs) // replacement never carries its own context

	if lhsBody == "" && lhsPre == "" && lhsPost == "" {
		return CompiledRule{}, true, ReasonEmptyBody, nil
	}

	cr, err := buildCompiledRule(lhsPre, lhsBody, lhsPost, rhsBody, filter, p.Oracle)
	if err != nil {
		return CompiledRule{}, false, 0, &ParseError{File: label, Rule: rr.Text, Err: err}
	}
	cr.Label = label
	return cr, false, 0, nil
}
