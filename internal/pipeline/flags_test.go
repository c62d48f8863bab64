package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

func fullyCoveredClauses() []model.Clause {
	return []model.Clause{
		{Type: model.ClauseTypeTermination, RiskScore: 3.0},
		{Type: model.ClauseTypeLiability, RiskScore: 3.0},
		{Type: model.ClauseTypeDisputeResolution, RiskScore: 3.0},
		{Type: model.ClauseTypeGoverningLaw, RiskScore: 3.0},
	}
}

func TestDeriveFlags_FactorMapping(t *testing.T) {
	now := time.Now().UTC()
	a := &model.DocumentAnalysis{
		MOUID:            "mou-1",
		ComplianceStatus: model.ComplianceCompliant,
		Clauses:          fullyCoveredClauses(),
	}
	a.Clauses[1].RiskFactors = []string{"Unlimited liability"}
	a.Clauses[1].RiskScore = 3.0

	flags := deriveFlags(a, testRiskConfig(), now)
	require.Len(t, flags, 1)
	assert.Equal(t, model.FlagTypeLegalRisk, flags[0].Type)
	assert.Equal(t, model.SeverityHigh, flags[0].Severity)
	assert.Equal(t, "mou-1", flags[0].MOUID)
	assert.False(t, flags[0].Resolved)
	assert.NotEmpty(t, flags[0].ID)
	assert.Equal(t, now, flags[0].CreatedAt)
}

func TestDeriveFlags_FactorDeduplicatedAcrossClauses(t *testing.T) {
	a := &model.DocumentAnalysis{
		ComplianceStatus: model.ComplianceCompliant,
		Clauses:          fullyCoveredClauses(),
	}
	a.Clauses[0].RiskFactors = []string{"Vague termination"}
	a.Clauses[1].RiskFactors = []string{"Vague termination"}

	flags := deriveFlags(a, testRiskConfig(), time.Now())
	require.Len(t, flags, 1)
	assert.Equal(t, model.FlagTypeVagueTerms, flags[0].Type)
}

func TestDeriveFlags_UnknownFactorGetsDefaultFlag(t *testing.T) {
	a := &model.DocumentAnalysis{
		ComplianceStatus: model.ComplianceCompliant,
		Clauses:          fullyCoveredClauses(),
	}
	a.Clauses[0].RiskFactors = []string{"Exotic exposure"}

	flags := deriveFlags(a, testRiskConfig(), time.Now())
	require.Len(t, flags, 1)
	assert.Equal(t, model.FlagTypeLegalRisk, flags[0].Type)
	assert.Equal(t, model.SeverityMedium, flags[0].Severity)
	assert.Equal(t, "Exotic exposure", flags[0].Title)
}

func TestDeriveFlags_MissingStandardClauses(t *testing.T) {
	a := &model.DocumentAnalysis{
		ComplianceStatus: model.ComplianceCompliant,
		Clauses: []model.Clause{
			{Type: model.ClauseTypeGeneral, RiskScore: 3.0},
		},
	}

	flags := deriveFlags(a, testRiskConfig(), time.Now())
	require.Len(t, flags, 4)
	for _, f := range flags {
		assert.Equal(t, model.FlagTypeMissingClause, f.Type)
		assert.Equal(t, model.SeverityMedium, f.Severity)
	}
	assert.Equal(t, "Missing termination clause", flags[0].Title)
	assert.Equal(t, "Missing dispute resolution clause", flags[2].Title)
}

func TestDeriveFlags_NonCompliantRaisesCriticalFlag(t *testing.T) {
	a := &model.DocumentAnalysis{
		ComplianceStatus: model.ComplianceNonCompliant,
		OverallRiskScore: 9.1,
		Clauses:          fullyCoveredClauses(),
	}

	flags := deriveFlags(a, testRiskConfig(), time.Now())
	require.Len(t, flags, 1)
	assert.Equal(t, model.FlagTypeComplianceRisk, flags[0].Type)
	assert.Equal(t, model.SeverityCritical, flags[0].Severity)
}

func TestDeriveFlags_CleanDocumentHasNoFlags(t *testing.T) {
	a := &model.DocumentAnalysis{
		ComplianceStatus: model.ComplianceCompliant,
		Clauses:          fullyCoveredClauses(),
	}
	assert.Empty(t, deriveFlags(a, testRiskConfig(), time.Now()))
}
