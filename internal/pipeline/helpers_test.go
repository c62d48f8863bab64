package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/rules"
)

func testTable(t *testing.T) *rules.Table {
	t.Helper()
	tbl, err := rules.Load("")
	require.NoError(t, err)
	return tbl
}

func testRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		BaselineScore:         3.0,
		DefaultFactorWeight:   1.5,
		ScoreCeiling:          10.0,
		HighClauseScore:       7.0,
		NonCompliantHighCount: 2,
		NonCompliantScore:     8.0,
		ReviewScore:           6.0,
		LegalReviewScore:      7.0,
		FlaggedReviewScore:    5.0,
	}
}

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		ModelVersion:      "1.0.0",
		MinClauseLength:   50,
		MinSentenceLength: 20,
		MaxKeyTerms:       10,
	}
}

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	tbl := testTable(t)
	return NewAnalyzer(testPipelineConfig(), testRiskConfig(), tbl, NewRuleBackend(tbl))
}
