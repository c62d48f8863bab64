package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

func TestClassifyKeywords_ByType(t *testing.T) {
	tbl := testTable(t)

	cases := []struct {
		text string
		want model.ClauseType
	}{
		{"Either party may terminate this agreement with thirty days notice", model.ClauseTypeTermination},
		{"All invoices are due within thirty days of receipt", model.ClauseTypePayment},
		{"Neither party shall be liable for indirect damages", model.ClauseTypeLiability},
		{"All proprietary information shall remain confidential", model.ClauseTypeConfidentiality},
		{"Copyright in all produced works vests in the first party", model.ClauseTypeIntellectualProperty},
		{"Any dispute shall be resolved through binding arbitration", model.ClauseTypeDisputeResolution},
		{"This agreement shall be construed under the governing law of Delaware", model.ClauseTypeGoverningLaw},
		{"Performance delays caused by force majeure events are excused", model.ClauseTypeForceMajeure},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyKeywords(tbl, tc.text), "text: %s", tc.text)
	}
}

func TestClassifyKeywords_FirstTableEntryWins(t *testing.T) {
	tbl := testTable(t)

	// Carries both termination and payment keywords; termination is earlier
	// in the table.
	got := classifyKeywords(tbl, "Failure to cancel the payment schedule in writing")
	assert.Equal(t, model.ClauseTypeTermination, got)
}

func TestClassifyKeywords_DefaultsToGeneral(t *testing.T) {
	tbl := testTable(t)

	got := classifyKeywords(tbl, "The partners will collaborate on shared research goals")
	assert.Equal(t, model.ClauseTypeGeneral, got)
}

func TestRuleBackend_Confidence(t *testing.T) {
	tbl := testTable(t)
	backend := NewRuleBackend(tbl)
	ctx := context.Background()

	matched := backend.Classify(ctx, "Either party may terminate this agreement with notice")
	assert.Equal(t, model.ClauseTypeTermination, matched.Type)
	assert.Equal(t, 0.7, matched.Confidence)
	assert.Equal(t, model.SentimentNeutral, matched.Sentiment)

	general := backend.Classify(ctx, "The partners will collaborate on shared research goals")
	assert.Equal(t, model.ClauseTypeGeneral, general.Type)
	assert.Equal(t, 0.3, general.Confidence)
}

func TestRuleBackend_Metadata(t *testing.T) {
	backend := NewRuleBackend(testTable(t))
	assert.Equal(t, "rules", backend.Name())
	assert.False(t, backend.SentenceAware())
}
