package pipeline

import (
	"math"
	"strings"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/rules"
)

// detectRiskFactors evaluates every risk pattern against the clause and
// returns the names that trip, in table order.
func detectRiskFactors(table *rules.Table, text string) []string {
	lower := strings.ToLower(text)
	var factors []string
	for i := range table.RiskPatterns {
		p := &table.RiskPatterns[i]
		if p.Matches(lower) {
			factors = append(factors, p.Name)
		}
	}
	return factors
}

// scoreFactors converts detected risk factors into a clause score. No
// factors means the baseline score; otherwise the factor weights are summed
// and clamped at the ceiling. Factors without a configured weight use the
// default weight.
func scoreFactors(factors []string, weights map[string]float64, cfg config.RiskConfig) float64 {
	if len(factors) == 0 {
		return cfg.BaselineScore
	}
	total := 0.0
	for _, f := range factors {
		w, ok := weights[f]
		if !ok {
			w = cfg.DefaultFactorWeight
		}
		total += w
	}
	return math.Min(total, cfg.ScoreCeiling)
}
