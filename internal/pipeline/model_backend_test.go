package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/pkg/anthropic"
)

// fakeAIClient returns a canned response or error for every CreateMessage.
type fakeAIClient struct {
	resp  *anthropic.MessageResponse
	err   error
	calls int
}

func (f *fakeAIClient) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

func testAICfg() config.AnthropicConfig {
	return config.AnthropicConfig{
		Key:            "test-key",
		Model:          "claude-haiku-4-5-20251001",
		MaxTokens:      256,
		RequestsPerSec: 100,
	}
}

func newTestModelBackend(t *testing.T, client anthropic.Client) Backend {
	t.Helper()
	fallback := NewRuleBackend(testTable(t))
	backend, err := NewModelBackend(client, testAICfg(), fallback)
	require.NoError(t, err)
	return backend
}

func TestNewModelBackend_RequiresAPIKey(t *testing.T) {
	_, err := NewModelBackend(nil, config.AnthropicConfig{}, NewRuleBackend(testTable(t)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestModelBackend_Metadata(t *testing.T) {
	backend := newTestModelBackend(t, &fakeAIClient{resp: textResponse("{}")})
	assert.Equal(t, "model", backend.Name())
	assert.True(t, backend.SentenceAware())
}

func TestModelBackend_ParsesVerdict(t *testing.T) {
	client := &fakeAIClient{resp: textResponse(`{"type": "liability", "confidence": 0.92, "sentiment": "negative"}`)}
	backend := newTestModelBackend(t, client)

	got := backend.Classify(context.Background(), "The vendor is liable for direct damages only")
	assert.Equal(t, model.ClauseTypeLiability, got.Type)
	assert.InDelta(t, 0.92, got.Confidence, 0.001)
	assert.Equal(t, model.SentimentNegative, got.Sentiment)
	assert.Equal(t, 1, client.calls)
}

func TestModelBackend_StripsCodeFence(t *testing.T) {
	client := &fakeAIClient{resp: textResponse("```json\n{\"type\": \"payment\", \"confidence\": 0.8, \"sentiment\": \"neutral\"}\n```")}
	backend := newTestModelBackend(t, client)

	got := backend.Classify(context.Background(), "Invoices are payable within thirty days")
	assert.Equal(t, model.ClauseTypePayment, got.Type)
	assert.InDelta(t, 0.8, got.Confidence, 0.001)
}

func TestModelBackend_ClampsConfidence(t *testing.T) {
	client := &fakeAIClient{resp: textResponse(`{"type": "general", "confidence": 1.7, "sentiment": "neutral"}`)}
	backend := newTestModelBackend(t, client)

	got := backend.Classify(context.Background(), "Some agreeable words between the partners")
	assert.Equal(t, 1.0, got.Confidence)
}

func TestModelBackend_UnknownTypeFallsBack(t *testing.T) {
	client := &fakeAIClient{resp: textResponse(`{"type": "weather", "confidence": 0.9, "sentiment": "neutral"}`)}
	backend := newTestModelBackend(t, client)

	got := backend.Classify(context.Background(), "Either party may terminate this agreement with notice")
	// Rule fallback classifies by keywords.
	assert.Equal(t, model.ClauseTypeTermination, got.Type)
	assert.Equal(t, 0.7, got.Confidence)
}

func TestModelBackend_APIErrorFallsBack(t *testing.T) {
	client := &fakeAIClient{err: eris.New("boom")}
	backend := newTestModelBackend(t, client)

	got := backend.Classify(context.Background(), "All proprietary information shall remain confidential")
	assert.Equal(t, model.ClauseTypeConfidentiality, got.Type)
	assert.Equal(t, model.SentimentNeutral, got.Sentiment)
}

func TestModelBackend_MalformedJSONFallsBack(t *testing.T) {
	client := &fakeAIClient{resp: textResponse("sorry, I cannot classify this")}
	backend := newTestModelBackend(t, client)

	got := backend.Classify(context.Background(), "Either party may terminate this agreement with notice")
	assert.Equal(t, model.ClauseTypeTermination, got.Type)
}

func TestModelBackend_InvalidSentimentDefaultsToNeutral(t *testing.T) {
	client := &fakeAIClient{resp: textResponse(`{"type": "general", "confidence": 0.5, "sentiment": "grumpy"}`)}
	backend := newTestModelBackend(t, client)

	got := backend.Classify(context.Background(), "Some agreeable words between the partners")
	assert.Equal(t, model.SentimentNeutral, got.Sentiment)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
