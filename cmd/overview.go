package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/titanic-insights/internal/analysis"
)

var overviewRows int

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show leading rows and descriptive statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, log, err := newApp(false)
		if err != nil {
			return err
		}
		defer log.Sync()
		ov, err := app.Overview(overviewRows)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "[DATA OVERVIEW] %s (%d rows)\n\n", app.DataPath(), ov.Rows)
		fmt.Fprintf(out, "[RAW DATA] first %d rows\n", len(ov.Head))
		fmt.Fprintln(out, analysis.RowsMarkdown(ov.Head))
		fmt.Fprintln(out, "[DESCRIPTIVE STATISTICS]")
		fmt.Fprint(out, analysis.DescribeMarkdown(ov.Summaries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().IntVar(&overviewRows, "rows", 10, "number of leading rows to show (0 = all)")
}
