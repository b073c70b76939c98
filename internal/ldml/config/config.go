// Package config implements component 4.I: the supplemental built-in rule
// table and the script->transliterator map, loaded from an embedded YAML
// default and optionally overridden by a file on disk — mirroring the
// teacher's embedded-default-plus-override-file config pattern
// (app.LoadOrCreateConfig / config.RuleSet).
package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// AttachMode names how a SupplementalRule's rules are spliced into its
// target transform (spec.md §9, design note "Supplemental rules as data").
type AttachMode string

const (
	AttachAppendToLastStep AttachMode = "append_to_last_step"
	AttachNewStep          AttachMode = "new_step"
)

// SupplementalRule is one built-in splice: extra rule lines attached to an
// existing transform, either appended to its last ruleset step or added as
// a new step.
type SupplementalRule struct {
	Transform  string     `yaml:"transform"`
	AttachMode AttachMode `yaml:"attach_mode"`
	Rules      []string   `yaml:"rules"`
}

// ScriptMap maps a script name to a language to an ordered list of
// transliterator names to try for that script/language pair. The
// language key "null" (the quoted string, as in default.yaml) means
// "default for script"; an unquoted YAML null key unmarshals as the empty
// string, which the emitter also writes as "null".
type ScriptMap map[string]map[string][]string

// Document is the full shape of the embedded/override configuration file.
type Document struct {
	Supplemental []SupplementalRule `yaml:"supplemental"`
	ScriptMap    ScriptMap          `yaml:"script_map"`
	RuleMap      map[string]string  `yaml:"rule_map"`
}

// Validate checks structural invariants the linker and rule-map
// substitution step depend on.
func (d *Document) Validate() error {
	for i, s := range d.Supplemental {
		if s.Transform == "" {
			return errors.Errorf("supplemental[%d]: missing transform name", i)
		}
		switch s.AttachMode {
		case AttachAppendToLastStep, AttachNewStep:
		default:
			return errors.Errorf("supplemental[%d]: unknown attach_mode %q", i, s.AttachMode)
		}
	}
	return nil
}

// OverridePath returns the path to the optional override configuration
// file, following the same XDG config-home convention as the teacher's
// ConfigPath.
func OverridePath() (string, error) {
	return xdg.ConfigFile(filepath.Join("ldmlcompile", "config.yaml"))
}

// Load reads the embedded default document, then — if path is non-empty,
// or if the XDG override file exists when path is empty — merges an
// override document on top of it. An override's Supplemental and RuleMap
// entries are appended/merged onto the defaults; its ScriptMap entries
// replace same-keyed script entries wholesale.
func Load(path string) (*Document, error) {
	doc, err := unmarshal(defaultYAML)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling embedded default config")
	}

	if path == "" {
		defaultPath, err := OverridePath()
		if err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(defaultPath); statErr == nil {
			path = defaultPath
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading override config %s", path)
		}
		overlay, err := unmarshal(data)
		if err != nil {
			return nil, errors.Wrapf(err, "unmarshaling override config %s", path)
		}
		doc.merge(overlay)
	}

	if err := doc.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return doc, nil
}

func unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) merge(overlay *Document) {
	d.Supplemental = append(d.Supplemental, overlay.Supplemental...)
	if d.ScriptMap == nil {
		d.ScriptMap = ScriptMap{}
	}
	for script, byLang := range overlay.ScriptMap {
		d.ScriptMap[script] = byLang
	}
	if d.RuleMap == nil {
		d.RuleMap = map[string]string{}
	}
	for k, v := range overlay.RuleMap {
		d.RuleMap[k] = v
	}
}
