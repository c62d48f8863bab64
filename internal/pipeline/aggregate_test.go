package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

func analysisWithScores(scores ...float64) *model.DocumentAnalysis {
	a := &model.DocumentAnalysis{}
	for _, s := range scores {
		a.Clauses = append(a.Clauses, model.Clause{
			Type:       model.ClauseTypeGeneral,
			RiskScore:  s,
			Confidence: 0.7,
		})
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	if len(scores) > 0 {
		a.OverallRiskScore = total / float64(len(scores))
	}
	return a
}

func TestAssessCompliance_HighCountTrigger(t *testing.T) {
	// Three high-risk clauses force non_compliant even though the mean
	// score stays under the score trigger.
	a := analysisWithScores(7.5, 7.5, 7.5)
	require.InDelta(t, 7.5, a.OverallRiskScore, 0.001)
	assert.Equal(t, model.ComplianceNonCompliant, assessCompliance(a, testRiskConfig()))
}

func TestAssessCompliance_ScoreTrigger(t *testing.T) {
	a := analysisWithScores(8.5, 8.5)
	assert.Equal(t, model.ComplianceNonCompliant, assessCompliance(a, testRiskConfig()))
}

func TestAssessCompliance_SingleHighClauseRequiresReview(t *testing.T) {
	a := analysisWithScores(7.5, 2.0, 2.0)
	assert.Equal(t, model.ComplianceReviewRequired, assessCompliance(a, testRiskConfig()))
}

func TestAssessCompliance_ScoreAboveReviewThreshold(t *testing.T) {
	a := analysisWithScores(6.5, 6.5)
	assert.Equal(t, model.ComplianceReviewRequired, assessCompliance(a, testRiskConfig()))
}

func TestAssessCompliance_Compliant(t *testing.T) {
	a := analysisWithScores(3.0, 2.0, 3.0)
	assert.Equal(t, model.ComplianceCompliant, assessCompliance(a, testRiskConfig()))
}

func TestBuildRecommendations_HighRisk(t *testing.T) {
	a := analysisWithScores(8.0, 8.0)
	a.Clauses[0].Type = model.ClauseTypeTermination
	a.Clauses[1].Type = model.ClauseTypeLiability

	recs := buildRecommendations(a, testRiskConfig())
	require.Len(t, recs, 2)
	assert.Equal(t, "High risk detected - recommend legal review before signing", recs[0])
	assert.Equal(t, "Consider adding standard clauses: dispute_resolution, governing_law", recs[1])
}

func TestBuildRecommendations_MediumRisk(t *testing.T) {
	a := analysisWithScores(5.5)
	recs := buildRecommendations(a, testRiskConfig())
	require.NotEmpty(t, recs)
	assert.Equal(t, "Medium risk - review flagged clauses carefully", recs[0])
}

func TestBuildRecommendations_AllStandardClausesPresentLowRisk(t *testing.T) {
	a := analysisWithScores(3.0, 3.0, 3.0, 3.0)
	a.Clauses[0].Type = model.ClauseTypeTermination
	a.Clauses[1].Type = model.ClauseTypeLiability
	a.Clauses[2].Type = model.ClauseTypeDisputeResolution
	a.Clauses[3].Type = model.ClauseTypeGoverningLaw

	assert.Empty(t, buildRecommendations(a, testRiskConfig()))
}

func TestBuildSummaryStats_Bands(t *testing.T) {
	a := analysisWithScores(7.5, 7.0, 4.0, 3.9)
	stats := buildSummaryStats(a, testRiskConfig())

	assert.Equal(t, 4, stats.TotalClauses)
	assert.Equal(t, 1, stats.HighRiskClauses)
	assert.Equal(t, 2, stats.MediumRiskClauses)
	assert.Equal(t, 1, stats.LowRiskClauses)
	assert.InDelta(t, 0.7, stats.AverageConfidence, 0.001)
}

func TestBuildSummaryStats_MostCommonTypeTieGoesToFirstSeen(t *testing.T) {
	a := &model.DocumentAnalysis{
		Clauses: []model.Clause{
			{Type: model.ClauseTypePayment, RiskScore: 3.0, Confidence: 0.7},
			{Type: model.ClauseTypeLiability, RiskScore: 3.0, Confidence: 0.7},
			{Type: model.ClauseTypeLiability, RiskScore: 3.0, Confidence: 0.7},
			{Type: model.ClauseTypePayment, RiskScore: 3.0, Confidence: 0.7},
		},
	}
	stats := buildSummaryStats(a, testRiskConfig())
	assert.Equal(t, model.ClauseTypePayment, stats.MostCommonClauseType)
}

func TestBuildSummaryStats_EmptyAnalysis(t *testing.T) {
	stats := buildSummaryStats(&model.DocumentAnalysis{}, testRiskConfig())
	assert.Equal(t, model.SummaryStats{}, stats)
}

func TestEmptyAnalysis(t *testing.T) {
	now := time.Now().UTC()
	a := emptyAnalysis("mou-1", "rules", "1.0.0", now)

	assert.Equal(t, "mou-1", a.MOUID)
	assert.Equal(t, 0.0, a.OverallRiskScore)
	assert.Equal(t, model.ComplianceUnknown, a.ComplianceStatus)
	assert.Equal(t, []string{"No content available for analysis"}, a.Recommendations)
	assert.Empty(t, a.Clauses)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, now, a.AnalyzedAt)
}
