package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/titanic-insights/internal/analysis"
)

var demographicsCmd = &cobra.Command{
	Use:   "demographics",
	Short: "Show age and fare distributions and age vs. fare by class",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, log, err := newApp(false)
		if err != nil {
			return err
		}
		defer log.Sync()
		dm, err := app.Demographics()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, analysis.HistogramMarkdown(dm.Age))
		fmt.Fprintln(out, analysis.HistogramMarkdown(dm.Fare))
		fmt.Fprintln(out, "[AGE VS. FARE BY PCLASS]")
		fmt.Fprintln(out, "| Pclass | points | mean age | mean fare |")
		fmt.Fprintln(out, "|---|---|---|---|")
		for _, s := range dm.AgeFare {
			var sx, sy float64
			for _, p := range s.Points {
				sx += p.X
				sy += p.Y
			}
			n := float64(len(s.Points))
			if n == 0 {
				n = 1
			}
			fmt.Fprintf(out, "| %s | %d | %.2f | %.2f |\n", s.Key, len(s.Points), sx/n, sy/n)
		}
		fmt.Fprintln(out, "\nRender the figures with: titanic chart age|fare|age-fare")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demographicsCmd)
}
