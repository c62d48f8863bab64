package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mou",
	Short: "MOU document understanding and risk scoring",
	Long:  "Extracts text from MOU PDFs, segments and classifies clauses, scores contractual risk, checks signature authenticity, and tracks the MOU lifecycle.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
