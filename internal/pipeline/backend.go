package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/rules"
)

// Classification is a backend's verdict for a single clause.
type Classification struct {
	Type       model.ClauseType
	Confidence float64
	Sentiment  model.Sentiment
}

// Backend classifies clause text. Implementations must be safe for
// concurrent use; Classify never fails, it degrades to a weaker verdict.
type Backend interface {
	Name() string
	// SentenceAware reports whether the backend benefits from
	// sentence-level segmentation instead of structural marker splits.
	SentenceAware() bool
	Classify(ctx context.Context, clauseText string) Classification
}

type ruleBackend struct {
	table *rules.Table
}

// NewRuleBackend returns the keyword-table backend.
func NewRuleBackend(table *rules.Table) Backend {
	return &ruleBackend{table: table}
}

func (b *ruleBackend) Name() string { return "rules" }

func (b *ruleBackend) SentenceAware() bool { return false }

func (b *ruleBackend) Classify(_ context.Context, clauseText string) Classification {
	ct := classifyKeywords(b.table, clauseText)
	conf := matchedConfidence
	if ct == model.ClauseTypeGeneral {
		conf = defaultConfidence
	}
	return Classification{
		Type:       ct,
		Confidence: conf,
		Sentiment:  model.SentimentNeutral,
	}
}

// SelectBackend picks the classification backend once at startup. A model
// backend that cannot be constructed degrades to the rule backend for the
// life of the process; the choice is never revisited per call.
func SelectBackend(cfg config.PipelineConfig, aiCfg config.AnthropicConfig, table *rules.Table) Backend {
	rb := NewRuleBackend(table)
	if !cfg.ModelBackend {
		return rb
	}

	mb, err := NewModelBackend(nil, aiCfg, rb)
	if err != nil {
		zap.L().Warn("pipeline: model backend unavailable, using rule-based analysis",
			zap.Error(err),
		)
		return rb
	}
	zap.L().Info("pipeline: model backend enabled", zap.String("model", aiCfg.Model))
	return mb
}
