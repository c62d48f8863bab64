package main

import (
	"github.com/spf13/cobra"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

var (
	flagsAll          bool
	flagsResolvedBy   string
	flagsResolveNotes string
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Inspect and resolve stored risk flags",
}

var flagsListCmd = &cobra.Command{
	Use:   "list <mou-id>",
	Short: "List risk flags for an MOU",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		flags, err := st.ListFlags(ctx, args[0], flagsAll)
		if err != nil {
			return err
		}
		return printJSON(flags)
	},
}

var flagsResolveCmd = &cobra.Command{
	Use:   "resolve <mou-id> <flag-id>",
	Short: "Mark a risk flag resolved",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mouID, flagID := args[0], args[1]

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ResolveFlag(ctx, flagID, flagsResolvedBy, flagsResolveNotes); err != nil {
			return err
		}
		if _, err := st.AppendActivity(ctx, model.ActivityEntry{
			MOUID:       mouID,
			Action:      model.ActionFlagResolved,
			Actor:       flagsResolvedBy,
			Description: "flag " + flagID + " resolved",
		}); err != nil {
			return err
		}

		flags, err := st.ListFlags(ctx, mouID, true)
		if err != nil {
			return err
		}
		return printJSON(flags)
	},
}

func init() {
	flagsListCmd.Flags().BoolVar(&flagsAll, "all", false, "include resolved flags")
	flagsResolveCmd.Flags().StringVar(&flagsResolvedBy, "by", "", "who resolved the flag")
	flagsResolveCmd.Flags().StringVar(&flagsResolveNotes, "notes", "", "resolution notes")
	_ = flagsResolveCmd.MarkFlagRequired("by")
	flagsCmd.AddCommand(flagsListCmd)
	flagsCmd.AddCommand(flagsResolveCmd)
	rootCmd.AddCommand(flagsCmd)
}
