package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"EconDashboard/internal/model"
	"EconDashboard/internal/report"
)

var stressCmd = &cobra.Command{
	Use:   "stress [CODE...]",
	Short: "Print systemic stress statistics for the given countries",
	Long:  "Print systemic stress statistics. Without arguments the dashboard panels are shown (U2, IE, DE, GB, NL, US, FR).",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(true)
		if err != nil {
			return err
		}
		defer rt.Close()

		codes := args
		if len(codes) == 0 {
			for _, c := range model.StressPanels {
				codes = append(codes, c.Code)
			}
		}

		var panels []model.StressPanel
		var latest time.Time
		failed := 0
		for _, code := range codes {
			p := rt.collector.StressPanel(cmd.Context(), code)
			if !p.Result.OK() {
				failed++
			} else if last, ok := p.Result.Table.LastDate(); ok {
				latest = last
			}
			panels = append(panels, p)
		}
		fmt.Fprint(cmd.OutOrStdout(), report.FormatStressSummary(panels, latest))

		if failed == len(codes) {
			return fmt.Errorf("no stress series could be loaded")
		}
		return nil
	},
}
