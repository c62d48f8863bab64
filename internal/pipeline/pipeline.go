// Package pipeline implements the document understanding flow: clause
// segmentation, classification, per-clause risk scoring, and document-level
// aggregation into a compliance verdict.
package pipeline

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/dates"
	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/rules"
)

// Analyzer runs the full pipeline over extracted documents. It is stateless
// apart from its configuration and safe for concurrent use.
type Analyzer struct {
	cfg     config.PipelineConfig
	riskCfg config.RiskConfig
	table   *rules.Table
	backend Backend
}

// NewAnalyzer builds an Analyzer with the given rule tables and backend.
func NewAnalyzer(cfg config.PipelineConfig, riskCfg config.RiskConfig, table *rules.Table, backend Backend) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		riskCfg: riskCfg,
		table:   table,
		backend: backend,
	}
}

// AnalyzeDocument runs segmentation, per-clause analysis, and aggregation.
// A document with no extractable text yields an empty analysis with an
// unknown compliance status; the method itself never fails.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, mouID string, doc *model.ExtractedDocument) *model.DocumentAnalysis {
	now := time.Now().UTC()

	if doc == nil || doc.IsEmpty() {
		zap.L().Warn("pipeline: no content to analyze", zap.String("mou_id", mouID))
		return emptyAnalysis(mouID, a.backend.Name(), a.cfg.ModelVersion, now)
	}

	var clauseTexts []string
	if a.backend.SentenceAware() {
		clauseTexts = segmentSentences(doc.FullText, a.cfg.MinSentenceLength, a.cfg.MinClauseLength)
	} else {
		clauseTexts = segmentStructural(doc.FullText, a.cfg.MinClauseLength)
	}

	analysis := &model.DocumentAnalysis{
		ID:            uuid.NewString(),
		MOUID:         mouID,
		ModelVersion:  a.cfg.ModelVersion,
		Backend:       a.backend.Name(),
		Organizations: extractOrganizations(doc.FullText),
		Dates:         dates.Parse(doc.FullText),
		AnalyzedAt:    now,
	}

	total := 0.0
	cursor := 0
	for _, text := range clauseTexts {
		clause := a.AnalyzeClause(ctx, text)
		clause.StartOffset, clause.EndOffset, cursor = locateClause(doc.FullText, text, cursor)
		analysis.Clauses = append(analysis.Clauses, clause)
		total += clause.RiskScore
	}

	if len(analysis.Clauses) > 0 {
		analysis.OverallRiskScore = math.Min(total/float64(len(analysis.Clauses)), a.riskCfg.ScoreCeiling)
	}
	analysis.Recommendations = buildRecommendations(analysis, a.riskCfg)
	analysis.ComplianceStatus = assessCompliance(analysis, a.riskCfg)
	analysis.SummaryStats = buildSummaryStats(analysis, a.riskCfg)

	zap.L().Info("pipeline: document analyzed",
		zap.String("mou_id", mouID),
		zap.String("backend", analysis.Backend),
		zap.Int("clauses", len(analysis.Clauses)),
		zap.Float64("overall_risk_score", analysis.OverallRiskScore),
		zap.String("compliance_status", string(analysis.ComplianceStatus)),
	)
	return analysis
}

// AnalyzeClause classifies one clause and attaches its risk factors, score,
// suggestions, and key terms. Risk detection is always rule-driven; only the
// type, confidence, and sentiment come from the backend.
func (a *Analyzer) AnalyzeClause(ctx context.Context, text string) model.Clause {
	verdict := a.backend.Classify(ctx, text)
	factors := detectRiskFactors(a.table, text)

	return model.Clause{
		Text:        text,
		Type:        verdict.Type,
		Confidence:  verdict.Confidence,
		Sentiment:   verdict.Sentiment,
		RiskFactors: factors,
		RiskScore:   scoreFactors(factors, a.table.RiskWeights, a.riskCfg),
		Suggestions: buildSuggestions(a.table, verdict.Type, factors),
		KeyTerms:    extractKeyTerms(text, a.cfg.MaxKeyTerms),
	}
}

// DeriveFlags exposes flag derivation for the given analysis.
func (a *Analyzer) DeriveFlags(analysis *model.DocumentAnalysis, now time.Time) []model.RiskFlag {
	return deriveFlags(analysis, a.riskCfg, now)
}

// locateClause finds the clause's offsets in the source text, searching
// forward from cursor first so repeated phrasing maps to distinct spans.
// Sentence-merged clauses may not appear verbatim; those carry no offsets.
func locateClause(fullText, clause string, cursor int) (*int, *int, int) {
	idx := strings.Index(fullText[cursor:], clause)
	if idx >= 0 {
		start := cursor + idx
		end := start + len(clause)
		return &start, &end, end
	}
	if idx = strings.Index(fullText, clause); idx >= 0 {
		start := idx
		end := start + len(clause)
		return &start, &end, cursor
	}
	return nil, nil, cursor
}
