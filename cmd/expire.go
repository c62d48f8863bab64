package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Veda-rathna/mou-management-system/internal/lifecycle"
	"github.com/Veda-rathna/mou-management-system/internal/model"
)

type expireReport struct {
	Expired      []model.MOU             `json:"expired"`
	ExpiringSoon []lifecycle.ExpiringMOU `json:"expiring_soon"`
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Expire overdue MOUs and report upcoming expirations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mgr := lifecycle.NewManager(st, cfg.Lifecycle)
		now := time.Now().UTC()

		expired, err := mgr.SweepExpired(ctx, now)
		if err != nil {
			return err
		}
		upcoming, err := mgr.ExpiringSoon(ctx, now)
		if err != nil {
			return err
		}

		return printJSON(expireReport{Expired: expired, ExpiringSoon: upcoming})
	},
}

func init() {
	rootCmd.AddCommand(expireCmd)
}
