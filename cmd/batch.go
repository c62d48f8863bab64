package main

import (
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Veda-rathna/mou-management-system/internal/extract"
)

var batchActor string

type batchSummary struct {
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
	Results   []*analyzeResult `json:"results"`
	Errors    []string         `json:"errors,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every PDF in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pdfs, err := filepath.Glob(filepath.Join(args[0], "*.pdf"))
		if err != nil {
			return eris.Wrap(err, "glob pdfs")
		}
		if len(pdfs) == 0 {
			return eris.Errorf("no PDF files in %s", args[0])
		}

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

		concurrency := cfg.Batch.MaxConcurrentDocs
		if concurrency <= 0 {
			concurrency = 1
		}

		var mu sync.Mutex
		summary := &batchSummary{}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, pdfPath := range pdfs {
			g.Go(func() error {
				result, err := analyzeFile(gctx, st, analyzer, extractor, pdfPath, "", batchActor)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					// One bad document must not stop the batch.
					summary.Errors = append(summary.Errors, pdfPath+": "+err.Error())
					zap.L().Error("document analysis failed",
						zap.String("pdf", pdfPath), zap.Error(err))
					return nil
				}
				summary.Results = append(summary.Results, result)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		summary.Processed = len(summary.Results)
		summary.Failed = len(summary.Errors)
		zap.L().Info("batch complete",
			zap.Int("processed", summary.Processed),
			zap.Int("failed", summary.Failed),
		)
		return printJSON(summary)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchActor, "actor", "", "who triggered the batch, for the activity log")
	rootCmd.AddCommand(batchCmd)
}
