package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/titanic-insights/internal/chart"
	"github.com/KaramelBytes/titanic-insights/internal/utils"
)

var (
	chartOutput string
	chartAll    bool
	chartWidth  float64
	chartHeight float64
)

var chartCmd = &cobra.Command{
	Use:   "chart [name]",
	Short: "Render a dashboard chart to PNG",
	Long: "Render a dashboard chart to PNG. Known charts: " + strings.Join(chart.Names(), ", ") + ".\n" +
		"Without -o the file is written to <chart_dir>/<name>.png.",
	Args: func(cmd *cobra.Command, args []string) error {
		if chartAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, c, log, err := newApp(false)
		if err != nil {
			return err
		}
		defer log.Sync()
		names := args
		if chartAll {
			names = chart.Names()
			if chartOutput != "" {
				return fmt.Errorf("--output cannot be combined with --all")
			}
		}
		for _, name := range names {
			p, err := app.Chart(name)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := chart.WritePNG(&buf, p, vg.Length(chartWidth)*vg.Inch, vg.Length(chartHeight)*vg.Inch); err != nil {
				return err
			}
			path := chartOutput
			if path == "" {
				path = filepath.Join(c.ChartDir, strings.ToLower(name)+".png")
			}
			if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s chart to %s\n", name, path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output PNG path")
	chartCmd.Flags().BoolVar(&chartAll, "all", false, "render every chart into chart_dir")
	chartCmd.Flags().Float64Var(&chartWidth, "width", 6, "image width in inches")
	chartCmd.Flags().Float64Var(&chartHeight, "height", 4, "image height in inches")
}
