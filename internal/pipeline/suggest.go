package pipeline

import (
	"strings"

	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/rules"
)

// buildSuggestions assembles remediation text for one clause from the
// suggestion rules. Factor rules fire when the named factor was detected;
// clause-type rules fire for matching types unless a factor containing the
// suppression substring is present.
func buildSuggestions(table *rules.Table, clauseType model.ClauseType, factors []string) []string {
	var out []string
	for _, rule := range table.Suggestions {
		if rule.Factor != "" {
			if containsFactor(factors, rule.Factor) {
				out = append(out, rule.Text)
			}
			continue
		}
		if rule.ClauseType != clauseType {
			continue
		}
		if rule.UnlessFactorContains != "" && anyFactorContains(factors, rule.UnlessFactorContains) {
			continue
		}
		out = append(out, rule.Text)
	}
	return out
}

func containsFactor(factors []string, name string) bool {
	for _, f := range factors {
		if f == name {
			return true
		}
	}
	return false
}

func anyFactorContains(factors []string, substr string) bool {
	for _, f := range factors {
		if strings.Contains(strings.ToLower(f), substr) {
			return true
		}
	}
	return false
}
