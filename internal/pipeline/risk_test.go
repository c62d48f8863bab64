package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRiskFactors_UnlimitedLiability(t *testing.T) {
	tbl := testTable(t)
	factors := detectRiskFactors(tbl, "The contractor assumes unlimited liability for any losses")
	assert.Equal(t, []string{"Unlimited liability"}, factors)
}

func TestDetectRiskFactors_VagueTermination(t *testing.T) {
	tbl := testTable(t)
	factors := detectRiskFactors(tbl, "Either party may terminate at any time without cause")
	assert.Equal(t, []string{"Vague termination"}, factors)
}

func TestDetectRiskFactors_NoDisputeResolutionNeedsTerminationContext(t *testing.T) {
	tbl := testTable(t)

	// Termination discussed with no dispute mechanism in sight.
	factors := detectRiskFactors(tbl, "Upon termination all borrowed materials shall be returned promptly")
	assert.Equal(t, []string{"No dispute resolution"}, factors)

	// Mentioning arbitration suppresses the factor.
	factors = detectRiskFactors(tbl, "Upon termination any disagreement goes to binding arbitration")
	assert.Empty(t, factors)

	// No termination context, no factor.
	factors = detectRiskFactors(tbl, "The partners will meet quarterly to review shared milestones")
	assert.Empty(t, factors)
}

func TestDetectRiskFactors_ExcessivePenalties(t *testing.T) {
	tbl := testTable(t)
	factors := detectRiskFactors(tbl, "A penalty of $5,000 applies to each late deliverable")
	assert.Equal(t, []string{"Excessive penalties"}, factors)
}

func TestDetectRiskFactors_BroadIndemnification(t *testing.T) {
	tbl := testTable(t)

	factors := detectRiskFactors(tbl, "The partner shall indemnify the institute against all claims")
	assert.Equal(t, []string{"Broad indemnification"}, factors)

	factors = detectRiskFactors(tbl, "The partner will hold harmless the institute from any proceedings")
	assert.Equal(t, []string{"Broad indemnification"}, factors)
}

func TestDetectRiskFactors_TableOrder(t *testing.T) {
	tbl := testTable(t)
	text := "The vendor accepts unlimited liability, may terminate at any time, " +
		"pays a penalty per breach, and shall indemnify the buyer against all claims"

	factors := detectRiskFactors(tbl, text)
	require.Equal(t, []string{
		"Unlimited liability",
		"Vague termination",
		"Excessive penalties",
		"Broad indemnification",
	}, factors)
}

func TestScoreFactors_BaselineWithoutFactors(t *testing.T) {
	tbl := testTable(t)
	score := scoreFactors(nil, tbl.RiskWeights, testRiskConfig())
	assert.Equal(t, 3.0, score)
}

func TestScoreFactors_WeightedSum(t *testing.T) {
	tbl := testTable(t)
	cfg := testRiskConfig()

	assert.Equal(t, 3.0, scoreFactors([]string{"Unlimited liability"}, tbl.RiskWeights, cfg))
	assert.Equal(t, 2.0, scoreFactors([]string{"Vague termination"}, tbl.RiskWeights, cfg))
	assert.InDelta(t, 5.5, scoreFactors([]string{"Unlimited liability", "Broad indemnification"}, tbl.RiskWeights, cfg), 0.001)
}

func TestScoreFactors_DefaultWeightForUnknownFactor(t *testing.T) {
	tbl := testTable(t)
	score := scoreFactors([]string{"Something novel"}, tbl.RiskWeights, testRiskConfig())
	assert.Equal(t, 1.5, score)
}

func TestScoreFactors_ClampedAtCeiling(t *testing.T) {
	tbl := testTable(t)
	all := []string{
		"Unlimited liability",
		"Vague termination",
		"No dispute resolution",
		"Excessive penalties",
		"Broad indemnification",
	}
	// 3.0 + 2.0 + 2.5 + 2.0 + 2.5 = 12.0, clamped.
	assert.Equal(t, 10.0, scoreFactors(all, tbl.RiskWeights, testRiskConfig()))
}
