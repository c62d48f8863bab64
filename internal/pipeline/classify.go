package pipeline

import (
	"strings"

	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/rules"
)

// Confidence assigned by the rule backend: matchedConfidence when a keyword
// rule fired, defaultConfidence for the general fallback type.
const (
	matchedConfidence = 0.7
	defaultConfidence = 0.3
)

// classifyKeywords returns the first clause type whose keyword list hits the
// text, walking the table in order. Text with no keyword hit classifies as
// general.
func classifyKeywords(table *rules.Table, text string) model.ClauseType {
	lower := strings.ToLower(text)
	for _, rule := range table.ClauseKeywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Type
			}
		}
	}
	return model.ClauseTypeGeneral
}
