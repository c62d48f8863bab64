package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/signature"
)

var signatureMOUID string

var signatureCmd = &cobra.Command{
	Use:   "signature <image>",
	Short: "Check a signature image for authenticity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		verification := signature.NewChecker().Check(args[0])

		if signatureMOUID != "" {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.GetMOU(ctx, signatureMOUID); err != nil {
				return err
			}
			verification.MOUID = signatureMOUID
			if err := st.SaveSignatureVerification(ctx, &verification); err != nil {
				return err
			}
			if _, err := st.AppendActivity(ctx, model.ActivityEntry{
				MOUID:       signatureMOUID,
				Action:      model.ActionSigned,
				Description: "signature checked: " + string(verification.Status),
			}); err != nil {
				return err
			}
		}

		zap.L().Info("signature checked",
			zap.String("image", args[0]),
			zap.String("status", string(verification.Status)),
			zap.Float64("black_ratio", verification.BlackRatio),
			zap.Float64("std_dev", verification.StdDev),
		)
		return printJSON(verification)
	},
}

func init() {
	signatureCmd.Flags().StringVar(&signatureMOUID, "mou", "", "MOU record to attach the verification to")
	rootCmd.AddCommand(signatureCmd)
}
