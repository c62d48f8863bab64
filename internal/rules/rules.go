// Package rules holds the heuristic tables driving clause classification,
// risk-factor detection, and suggestion generation. The tables ship as
// embedded defaults and can be replaced wholesale by an operator-supplied
// YAML file; list order is evaluation order.
package rules

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ClauseKeywordRule maps one clause type to its trigger keywords.
type ClauseKeywordRule struct {
	Type     model.ClauseType `yaml:"type"`
	Keywords []string         `yaml:"keywords"`
}

// RiskPattern is one named risk-factor check. A pattern matches when any of
// its substrings or regexes hit; patterns with Absent match when none of the
// absent terms occur and at least one requires_any term does.
type RiskPattern struct {
	Name        string   `yaml:"name"`
	Any         []string `yaml:"any"`
	Regex       []string `yaml:"regex"`
	Absent      []string `yaml:"absent"`
	RequiresAny []string `yaml:"requires_any"`

	compiled []*regexp.Regexp
}

// Matches reports whether the pattern applies to the clause text.
// The text must already be lowercased.
func (p *RiskPattern) Matches(lower string) bool {
	if len(p.Absent) > 0 {
		for _, term := range p.Absent {
			if strings.Contains(lower, term) {
				return false
			}
		}
		for _, term := range p.RequiresAny {
			if strings.Contains(lower, term) {
				return true
			}
		}
		return false
	}
	for _, term := range p.Any {
		if strings.Contains(lower, term) {
			return true
		}
	}
	for _, re := range p.compiled {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// SuggestionRule contributes one suggestion when its condition holds.
// Exactly one of Factor or ClauseType is set.
type SuggestionRule struct {
	Factor               string           `yaml:"factor"`
	ClauseType           model.ClauseType `yaml:"clause_type"`
	UnlessFactorContains string           `yaml:"unless_factor_contains"`
	Text                 string           `yaml:"text"`
}

// Table is the full set of rule tables.
type Table struct {
	ClauseKeywords []ClauseKeywordRule `yaml:"clause_keywords"`
	RiskPatterns   []RiskPattern       `yaml:"risk_patterns"`
	RiskWeights    map[string]float64  `yaml:"risk_weights"`
	Suggestions    []SuggestionRule    `yaml:"suggestions"`
}

// Load returns the rule tables from the given YAML file, or the embedded
// defaults when path is empty.
func Load(path string) (*Table, error) {
	data := defaultsYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "rules: read %s", path)
		}
		data = b
	}
	return parse(data)
}

func parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "rules: unmarshal")
	}
	for i := range t.RiskPatterns {
		p := &t.RiskPatterns[i]
		for _, expr := range p.Regex {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, eris.Wrapf(err, "rules: compile pattern %q for %s", expr, p.Name)
			}
			p.compiled = append(p.compiled, re)
		}
	}
	return &t, nil
}
