package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/pkg/anthropic"
)

const clauseSystemPrompt = `You are a contract analyst. Classify the clause into exactly one of these types: termination, payment, liability, confidentiality, intellectual_property, dispute_resolution, governing_law, force_majeure, performance, warranties, general. Respond with a valid JSON object: {"type": "<type>", "confidence": <0.0-1.0>, "sentiment": "positive" | "neutral" | "negative"}`

const clauseUserPrompt = `Clause text:
%s`

// maxClauseChars bounds the clause text sent per request.
const maxClauseChars = 2000

type modelBackend struct {
	client   anthropic.Client
	cfg      config.AnthropicConfig
	limiter  *rate.Limiter
	fallback Backend
}

// NewModelBackend builds the LLM-backed classification backend. Passing a
// nil client constructs one from the config; a missing API key is a
// construction error so the caller can degrade to the fallback once instead
// of failing on every clause.
func NewModelBackend(client anthropic.Client, cfg config.AnthropicConfig, fallback Backend) (Backend, error) {
	if client == nil {
		if cfg.Key == "" {
			return nil, eris.New("pipeline: anthropic API key not configured")
		}
		client = anthropic.NewClient(cfg.Key)
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	return &modelBackend{
		client:   client,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		fallback: fallback,
	}, nil
}

func (b *modelBackend) Name() string { return "model" }

func (b *modelBackend) SentenceAware() bool { return true }

// Classify asks the model for a clause verdict. Any failure, including a
// malformed or unrecognized response, falls back to the rule backend for
// this clause only.
func (b *modelBackend) Classify(ctx context.Context, clauseText string) Classification {
	if err := b.limiter.Wait(ctx); err != nil {
		return b.fallback.Classify(ctx, clauseText)
	}

	text := clauseText
	if len(text) > maxClauseChars {
		text = text[:maxClauseChars]
	}

	resp, err := b.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     b.cfg.Model,
		MaxTokens: b.cfg.MaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(clauseSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(clauseUserPrompt, text)},
		},
	})
	if err != nil {
		zap.L().Warn("pipeline: model classification failed, falling back to rules",
			zap.Error(err),
		)
		return b.fallback.Classify(ctx, clauseText)
	}
	resp.Usage.LogCost(b.cfg.Model, "classify")

	verdict, err := parseVerdict(resp)
	if err != nil {
		zap.L().Warn("pipeline: unusable model response, falling back to rules",
			zap.Error(err),
		)
		return b.fallback.Classify(ctx, clauseText)
	}
	return verdict
}

type rawVerdict struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Sentiment  string  `json:"sentiment"`
}

func parseVerdict(resp *anthropic.MessageResponse) (Classification, error) {
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return Classification{}, eris.New("pipeline: empty model response")
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return Classification{}, eris.Wrap(err, "pipeline: parse verdict")
	}

	ct := model.ClauseType(raw.Type)
	if !knownClauseType(ct) {
		return Classification{}, eris.Errorf("pipeline: unknown clause type %q", raw.Type)
	}

	conf := raw.Confidence
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}

	sentiment := model.Sentiment(raw.Sentiment)
	switch sentiment {
	case model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative:
	default:
		sentiment = model.SentimentNeutral
	}

	return Classification{Type: ct, Confidence: conf, Sentiment: sentiment}, nil
}

func knownClauseType(ct model.ClauseType) bool {
	for _, t := range model.AllClauseTypes() {
		if t == ct {
			return true
		}
	}
	return false
}

// stripCodeFence unwraps a response wrapped in markdown fences, with or
// without a language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
