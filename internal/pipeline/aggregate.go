package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
)

const noContentRecommendation = "No content available for analysis"

// buildRecommendations produces the document-level action list: a risk
// advisory when the overall score crosses the review thresholds, and a
// prompt for any standard clause type the document lacks.
func buildRecommendations(a *model.DocumentAnalysis, cfg config.RiskConfig) []string {
	var recs []string

	if a.OverallRiskScore > cfg.LegalReviewScore {
		recs = append(recs, "High risk detected - recommend legal review before signing")
	} else if a.OverallRiskScore > cfg.FlaggedReviewScore {
		recs = append(recs, "Medium risk - review flagged clauses carefully")
	}

	present := make(map[model.ClauseType]struct{}, len(a.Clauses))
	for _, c := range a.Clauses {
		present[c.Type] = struct{}{}
	}
	var missing []string
	for _, ct := range model.StandardClauseTypes() {
		if _, ok := present[ct]; !ok {
			missing = append(missing, string(ct))
		}
	}
	if len(missing) > 0 {
		recs = append(recs, fmt.Sprintf("Consider adding standard clauses: %s", strings.Join(missing, ", ")))
	}

	return recs
}

// assessCompliance maps the analysis onto a categorical verdict. The
// high-risk clause count and the overall score are independent triggers;
// either alone is enough to escalate.
func assessCompliance(a *model.DocumentAnalysis, cfg config.RiskConfig) model.ComplianceStatus {
	highCount := len(a.HighRiskClauses(cfg.HighClauseScore))
	switch {
	case highCount > cfg.NonCompliantHighCount || a.OverallRiskScore > cfg.NonCompliantScore:
		return model.ComplianceNonCompliant
	case highCount > 0 || a.OverallRiskScore > cfg.ReviewScore:
		return model.ComplianceReviewRequired
	default:
		return model.ComplianceCompliant
	}
}

// buildSummaryStats computes per-band clause counts and confidence averages.
// The high band is scores above HighClauseScore, low is under 4, medium is
// everything between.
func buildSummaryStats(a *model.DocumentAnalysis, cfg config.RiskConfig) model.SummaryStats {
	if len(a.Clauses) == 0 {
		return model.SummaryStats{}
	}

	stats := model.SummaryStats{TotalClauses: len(a.Clauses)}
	confSum := 0.0
	for _, c := range a.Clauses {
		switch {
		case c.RiskScore > cfg.HighClauseScore:
			stats.HighRiskClauses++
		case c.RiskScore < 4:
			stats.LowRiskClauses++
		default:
			stats.MediumRiskClauses++
		}
		confSum += c.Confidence
	}
	stats.AverageConfidence = confSum / float64(len(a.Clauses))
	stats.MostCommonClauseType = mostCommonClauseType(a.Clauses)
	return stats
}

// mostCommonClauseType breaks count ties in favor of the type seen first.
func mostCommonClauseType(clauses []model.Clause) model.ClauseType {
	counts := make(map[model.ClauseType]int)
	var best model.ClauseType
	bestCount := 0
	for _, c := range clauses {
		counts[c.Type]++
		if counts[c.Type] > bestCount {
			best = c.Type
			bestCount = counts[c.Type]
		}
	}
	return best
}

// emptyAnalysis is the result for documents with no extractable text.
func emptyAnalysis(mouID, backend, modelVersion string, now time.Time) *model.DocumentAnalysis {
	return &model.DocumentAnalysis{
		ID:               uuid.NewString(),
		MOUID:            mouID,
		ModelVersion:     modelVersion,
		Backend:          backend,
		OverallRiskScore: 0.0,
		ComplianceStatus: model.ComplianceUnknown,
		Recommendations:  []string{noContentRecommendation},
		AnalyzedAt:       now,
	}
}
