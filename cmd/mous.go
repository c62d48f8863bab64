package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Veda-rathna/mou-management-system/internal/lifecycle"
	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/store"
)

var (
	createTitle        string
	createPartner      string
	createOrganization string
	createContact      string
	createStart        string
	createExpiry       string

	listStatus  string
	listPartner string
	listLimit   int

	statusActor string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an MOU record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start, err := parseDateFlag(createStart)
		if err != nil {
			return err
		}
		expiry, err := parseDateFlag(createExpiry)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mou, err := st.CreateMOU(ctx, model.MOU{
			Title:               createTitle,
			PartnerName:         createPartner,
			PartnerOrganization: createOrganization,
			PartnerContact:      createContact,
			StartDate:           start,
			ExpiryDate:          expiry,
		})
		if err != nil {
			return err
		}
		if _, err := st.AppendActivity(ctx, model.ActivityEntry{
			MOUID:  mou.ID,
			Action: model.ActionCreated,
		}); err != nil {
			return err
		}
		return printJSON(mou)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List MOU records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mous, err := st.ListMOUs(ctx, store.MOUFilter{
			Status:  model.MOUStatus(listStatus),
			Partner: listPartner,
			Limit:   listLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(mous)
	},
}

type mouDetail struct {
	MOU      *model.MOU              `json:"mou"`
	Analysis *model.DocumentAnalysis `json:"analysis,omitempty"`
	Flags    []model.RiskFlag        `json:"flags,omitempty"`
	Activity []model.ActivityEntry   `json:"activity,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show <mou-id>",
	Short: "Show an MOU with its latest analysis, flags, and activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mou, err := st.GetMOU(ctx, args[0])
		if err != nil {
			return err
		}
		analysis, err := st.GetLatestAnalysis(ctx, mou.ID)
		if err != nil {
			return err
		}
		flags, err := st.ListFlags(ctx, mou.ID, true)
		if err != nil {
			return err
		}
		activity, err := st.ListActivity(ctx, mou.ID, 0)
		if err != nil {
			return err
		}
		return printJSON(mouDetail{MOU: mou, Analysis: analysis, Flags: flags, Activity: activity})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <mou-id> <new-status>",
	Short: "Move an MOU to a new lifecycle status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mgr := lifecycle.NewManager(st, cfg.Lifecycle)
		mou, err := mgr.Transition(ctx, args[0], model.MOUStatus(args[1]), statusActor)
		if err != nil {
			return err
		}
		return printJSON(mou)
	},
}

func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, eris.Wrapf(err, "parse date %q (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "MOU title (required)")
	createCmd.Flags().StringVar(&createPartner, "partner", "", "partner name (required)")
	createCmd.Flags().StringVar(&createOrganization, "organization", "", "partner organization")
	createCmd.Flags().StringVar(&createContact, "contact", "", "partner contact")
	createCmd.Flags().StringVar(&createStart, "start", "", "start date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createExpiry, "expiry", "", "expiry date (YYYY-MM-DD)")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("partner")

	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (draft|pending|active|expired)")
	listCmd.Flags().StringVar(&listPartner, "partner", "", "filter by partner name or organization")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "max records to return")

	statusCmd.Flags().StringVar(&statusActor, "actor", "", "who changed the status, for the activity log")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statusCmd)
}
