package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"EconDashboard/internal/export"
)

var (
	flagFormat string
	flagOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export CODE",
	Short: "Download one country's stress series to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagFormat != export.FormatCSV && flagFormat != export.FormatXLSX {
			return fmt.Errorf("unsupported format %q (want csv or xlsx)", flagFormat)
		}
		rt, err := setup(true)
		if err != nil {
			return err
		}
		defer rt.Close()

		res := rt.collector.Stress.LoadStress(cmd.Context(), args[0])
		if !res.OK() {
			return fmt.Errorf("load %s: %w", args[0], res.Err)
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, res.Table, flagFormat); err != nil {
			return err
		}
		if err := os.MkdirAll(flagOut, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path := filepath.Join(flagOut, export.Filename(res.Country, flagFormat, time.Now()))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d observations to %s\n", res.Table.Len(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", export.FormatCSV, "Output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", ".", "Output directory")
}
