package model

import "time"

// FlagType categorizes a risk flag raised by document analysis.
type FlagType string

const (
	FlagTypeLegalRisk        FlagType = "legal_risk"
	FlagTypeFinancialRisk    FlagType = "financial_risk"
	FlagTypeComplianceRisk   FlagType = "compliance_risk"
	FlagTypeOperationalRisk  FlagType = "operational_risk"
	FlagTypeReputationalRisk FlagType = "reputational_risk"
	FlagTypeMissingClause    FlagType = "missing_clause"
	FlagTypeVagueTerms       FlagType = "vague_terms"
	FlagTypeUnfavorableTerms FlagType = "unfavorable_terms"
)

// AllFlagTypes returns all defined risk flag types.
func AllFlagTypes() []FlagType {
	return []FlagType{
		FlagTypeLegalRisk,
		FlagTypeFinancialRisk,
		FlagTypeComplianceRisk,
		FlagTypeOperationalRisk,
		FlagTypeReputationalRisk,
		FlagTypeMissingClause,
		FlagTypeVagueTerms,
		FlagTypeUnfavorableTerms,
	}
}

// Severity ranks how serious a risk flag is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RiskFlag is a specific risk raised by an analysis run. Unresolved flags are
// cleared and regenerated by a re-analysis; resolved flags are kept as
// historical record.
type RiskFlag struct {
	ID              string     `json:"id"`
	MOUID           string     `json:"mou_id"`
	Type            FlagType   `json:"type"`
	Severity        Severity   `json:"severity"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Resolved        bool       `json:"resolved"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
