package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/dates"
	"github.com/Veda-rathna/mou-management-system/internal/extract"
	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/pipeline"
	"github.com/Veda-rathna/mou-management-system/internal/rules"
	"github.com/Veda-rathna/mou-management-system/internal/store"
)

var (
	analyzeMOUID string
	analyzeActor string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>",
	Short: "Analyze an MOU PDF and persist the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		analyzer, err := newAnalyzer()
		if err != nil {
			return err
		}
		extractor := extract.New(cfg.Extract)

		result, err := analyzeFile(ctx, st, analyzer, extractor, args[0], analyzeMOUID, analyzeActor)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMOUID, "mou", "", "existing MOU record ID (a new record is created when omitted)")
	analyzeCmd.Flags().StringVar(&analyzeActor, "actor", "", "who triggered the analysis, for the activity log")
	rootCmd.AddCommand(analyzeCmd)
}

func newAnalyzer() (*pipeline.Analyzer, error) {
	table, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load rule tables")
	}
	backend := pipeline.SelectBackend(cfg.Pipeline, cfg.Anthropic, table)
	return pipeline.NewAnalyzer(cfg.Pipeline, cfg.Risk, table, backend), nil
}

type analyzeResult struct {
	MOU      *model.MOU              `json:"mou"`
	Analysis *model.DocumentAnalysis `json:"analysis"`
	Flags    []model.RiskFlag        `json:"flags"`
}

func analyzeFile(ctx context.Context, st store.Store, analyzer *pipeline.Analyzer, extractor *extract.Extractor, pdfPath, mouID, actor string) (*analyzeResult, error) {
	var mou *model.MOU
	var err error

	if mouID != "" {
		mou, err = st.GetMOU(ctx, mouID)
		if err != nil {
			return nil, err
		}
	} else {
		title := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
		mou, err = st.CreateMOU(ctx, model.MOU{Title: title, PartnerName: ""})
		if err != nil {
			return nil, err
		}
		if _, err := st.AppendActivity(ctx, model.ActivityEntry{
			MOUID:  mou.ID,
			Action: model.ActionCreated,
			Actor:  actor,
		}); err != nil {
			return nil, err
		}
	}

	doc, err := extractor.Extract(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	if err := st.UpdateMOUDocument(ctx, mou.ID, pdfPath); err != nil {
		return nil, err
	}
	if _, err := st.AppendActivity(ctx, model.ActivityEntry{
		MOUID:       mou.ID,
		Action:      model.ActionPDFProcessed,
		Actor:       actor,
		Description: fmt.Sprintf("extracted %d pages", len(doc.Pages)),
	}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	analysis := analyzer.AnalyzeDocument(ctx, mou.ID, doc)
	if err := st.SaveAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	flags := analyzer.DeriveFlags(analysis, now)
	if err := st.ReplaceUnresolvedFlags(ctx, mou.ID, flags); err != nil {
		return nil, err
	}

	if start, expiry := contractDates(analysis.Dates); start != nil || expiry != nil {
		if err := st.UpdateMOUDates(ctx, mou.ID, start, expiry); err != nil {
			return nil, err
		}
		mou.StartDate = start
		mou.ExpiryDate = expiry
	}

	if _, err := st.AppendActivity(ctx, model.ActivityEntry{
		MOUID:       mou.ID,
		Action:      model.ActionAnalyzed,
		Actor:       actor,
		Description: fmt.Sprintf("risk score %.1f, %s", analysis.OverallRiskScore, analysis.ComplianceStatus),
	}); err != nil {
		return nil, err
	}

	mou.PDFPath = pdfPath
	zap.L().Info("analysis complete",
		zap.String("mou", mou.ID),
		zap.Float64("risk_score", analysis.OverallRiskScore),
		zap.String("compliance", string(analysis.ComplianceStatus)),
		zap.Int("flags", len(flags)),
	)
	return &analyzeResult{MOU: mou, Analysis: analysis, Flags: flags}, nil
}

// contractDates picks the parsed start and expiry dates from the extracted
// date fields, treating an end date as the expiry when no explicit expiry
// was found.
func contractDates(fields []model.DateField) (start, expiry *time.Time) {
	if f, ok := dates.Get(fields, model.DateKindStart); ok && f.Parsed != nil {
		start = f.Parsed
	}
	if f, ok := dates.Get(fields, model.DateKindExpiry); ok && f.Parsed != nil {
		expiry = f.Parsed
	} else if f, ok := dates.Get(fields, model.DateKindEnd); ok && f.Parsed != nil {
		expiry = f.Parsed
	}
	return start, expiry
}
