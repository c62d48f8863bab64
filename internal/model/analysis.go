package model

import "time"

// ClauseType represents the semantic category assigned to a clause.
type ClauseType string

const (
	ClauseTypeTermination          ClauseType = "termination"
	ClauseTypePayment              ClauseType = "payment"
	ClauseTypeLiability            ClauseType = "liability"
	ClauseTypeConfidentiality      ClauseType = "confidentiality"
	ClauseTypeIntellectualProperty ClauseType = "intellectual_property"
	ClauseTypeDisputeResolution    ClauseType = "dispute_resolution"
	ClauseTypeGoverningLaw         ClauseType = "governing_law"
	ClauseTypeForceMajeure         ClauseType = "force_majeure"
	ClauseTypePerformance          ClauseType = "performance"
	ClauseTypeWarranties           ClauseType = "warranties"
	ClauseTypeGeneral              ClauseType = "general"
	ClauseTypeUnknown              ClauseType = "unknown"
)

// AllClauseTypes returns all defined clause types.
func AllClauseTypes() []ClauseType {
	return []ClauseType{
		ClauseTypeTermination,
		ClauseTypePayment,
		ClauseTypeLiability,
		ClauseTypeConfidentiality,
		ClauseTypeIntellectualProperty,
		ClauseTypeDisputeResolution,
		ClauseTypeGoverningLaw,
		ClauseTypeForceMajeure,
		ClauseTypePerformance,
		ClauseTypeWarranties,
		ClauseTypeGeneral,
		ClauseTypeUnknown,
	}
}

// StandardClauseTypes returns the clause types every MOU is expected to
// carry. Their absence produces a document-level recommendation.
func StandardClauseTypes() []ClauseType {
	return []ClauseType{
		ClauseTypeTermination,
		ClauseTypeLiability,
		ClauseTypeDisputeResolution,
		ClauseTypeGoverningLaw,
	}
}

// Sentiment represents the tone assessment of a clause.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// Clause is one analyzed clause within a document analysis. Clauses are
// created by segmentation + classification and never mutated afterward; a
// re-analysis replaces the whole set.
type Clause struct {
	Text        string     `json:"text"`
	Type        ClauseType `json:"type"`
	StartOffset *int       `json:"start_offset,omitempty"`
	EndOffset   *int       `json:"end_offset,omitempty"`
	Confidence  float64    `json:"confidence"`
	Sentiment   Sentiment  `json:"sentiment"`
	RiskFactors []string   `json:"risk_factors"`
	RiskScore   float64    `json:"risk_score"`
	Suggestions []string   `json:"suggestions"`
	KeyTerms    []string   `json:"key_terms"`
}

// RiskLevel maps a 0-10 risk score into a human-readable band.
func RiskLevel(score float64) string {
	switch {
	case score >= 8:
		return "High"
	case score >= 6:
		return "Medium"
	case score >= 4:
		return "Low"
	default:
		return "Very Low"
	}
}

// ComplianceStatus is the document-level categorical verdict.
type ComplianceStatus string

const (
	ComplianceCompliant      ComplianceStatus = "compliant"
	ComplianceReviewRequired ComplianceStatus = "review_required"
	ComplianceNonCompliant   ComplianceStatus = "non_compliant"
	ComplianceUnknown        ComplianceStatus = "unknown"
	CompliancePending        ComplianceStatus = "pending"
)

// SummaryStats carries aggregate statistics for one analysis run.
type SummaryStats struct {
	TotalClauses         int        `json:"total_clauses"`
	HighRiskClauses      int        `json:"high_risk_clauses"`
	MediumRiskClauses    int        `json:"medium_risk_clauses"`
	LowRiskClauses       int        `json:"low_risk_clauses"`
	MostCommonClauseType ClauseType `json:"most_common_clause_type"`
	AverageConfidence    float64    `json:"average_confidence"`
}

// DocumentAnalysis is the full result of one pipeline run over a document.
// A re-run produces a new DocumentAnalysis that fully replaces the prior one.
type DocumentAnalysis struct {
	ID               string           `json:"id"`
	MOUID            string           `json:"mou_id,omitempty"`
	ModelVersion     string           `json:"model_version"`
	Backend          string           `json:"backend"`
	Clauses          []Clause         `json:"clauses"`
	OverallRiskScore float64          `json:"overall_risk_score"`
	ComplianceStatus ComplianceStatus `json:"compliance_status"`
	Recommendations  []string         `json:"recommendations"`
	SummaryStats     SummaryStats     `json:"summary_stats"`
	Organizations    []string         `json:"organizations,omitempty"`
	Dates            []DateField      `json:"dates,omitempty"`
	AnalyzedAt       time.Time        `json:"analyzed_at"`
}

// HighRiskClauses returns the clauses scoring above the given threshold.
func (a *DocumentAnalysis) HighRiskClauses(threshold float64) []Clause {
	var out []Clause
	for _, c := range a.Clauses {
		if c.RiskScore > threshold {
			out = append(out, c)
		}
	}
	return out
}
