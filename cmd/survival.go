package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/titanic-insights/internal/analysis"
)

var survivalBy []string

var survivalCmd = &cobra.Command{
	Use:   "survival",
	Short: "Show overall survival and survival rate by column",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, log, err := newApp(false)
		if err != nil {
			return err
		}
		defer log.Sync()
		rep, err := app.Survival(survivalBy...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, analysis.ViewMarkdown("overall survival", rep.Overall))
		for _, v := range rep.Rates {
			fmt.Fprintln(out, analysis.ViewMarkdown("survival rate by "+v.GroupBy, v))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(survivalCmd)
	survivalCmd.Flags().StringSliceVar(&survivalBy, "by", nil, "columns to break survival down by (default Pclass,Sex,Embarked)")
}
