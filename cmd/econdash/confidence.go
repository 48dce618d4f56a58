package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"EconDashboard/internal/report"
)

var confidenceCmd = &cobra.Command{
	Use:   "confidence",
	Short: "Print the latest consumer and business confidence readings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup(true)
		if err != nil {
			return err
		}
		defer rt.Close()

		sec, err := rt.collector.ConfidenceSection(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.FormatConfidenceSummary(sec))
		return nil
	},
}
