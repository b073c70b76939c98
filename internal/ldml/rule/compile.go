package rule

import (
	"strings"

	"github.com/aretext/ldmlcompile/internal/ldml/charset"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

// buildCompiledRule implements component E: given a rule's already
// variable-substituted and context-split segments, tokenize each into a
// ParsedSide and flatten the result into the emittable CompiledRule.
// Contexts are built only when non-empty; an empty context yields
// ContextNone with no slots.
func buildCompiledRule(pre, body, post, replacement string, filter charset.Filter, oracle ucd.Oracle) (CompiledRule, error) {
	bodySide, err := BuildParsedSide(body, filter, oracle)
	if err != nil {
		return CompiledRule{}, err
	}

	preSide, preKind, err := buildContextSide(pre, filter, oracle)
	if err != nil {
		return CompiledRule{}, err
	}
	postSide, postKind, err := buildContextSide(post, filter, oracle)
	if err != nil {
		return CompiledRule{}, err
	}

	rhsSide, err := buildOptionalSide(replacement, filter, oracle)
	if err != nil {
		return CompiledRule{}, err
	}

	preFlat := preSide.Flatten()
	postFlat := postSide.Flatten()

	return CompiledRule{
		Key: bodySide.Flatten(),

		PreContextKind: preKind,
		PreContext:     preFlat,
		PreContextMax:  len(preFlat),

		PostContextKind: postKind,
		PostContext:     postFlat,
		PostContextMax:  len(postFlat),

		Groups: bodySide.Groups,

		Replacement:   rhsSide.Flatten(),
		RevisitOffset: rhsSide.RevisitOffset,
	}, nil
}

func buildOptionalSide(raw string, filter charset.Filter, oracle ucd.Oracle) (ParsedSide, error) {
	if raw == "" {
		return ParsedSide{}, nil
	}
	return BuildParsedSide(raw, filter, oracle)
}

// buildContextSide builds one pre/post context, special-casing the
// word-boundary sentinel variable by string equality before tokenizing —
// mirroring the original's "if left_pre_context.strip() ==
// WORD_BOUNDARY_VAR" check, which recognizes $wordBoundary as a context
// in its own right rather than ordinary rvalue text to scan.
func buildContextSide(raw string, filter charset.Filter, oracle ucd.Oracle) (ParsedSide, ContextKind, error) {
	if strings.TrimSpace(raw) == WordBoundaryVar {
		return ParsedSide{}, ContextWordBoundary, nil
	}
	side, err := buildOptionalSide(raw, filter, oracle)
	if err != nil {
		return ParsedSide{}, ContextNone, err
	}
	return side, ClassifyContext(side), nil
}
