package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
	"github.com/KaramelBytes/titanic-insights/internal/predict"
	"github.com/KaramelBytes/titanic-insights/internal/utils"
)

var (
	predPclass   int
	predSex      string
	predAge      string
	predSibSp    int
	predParch    int
	predFare     string
	predEmbarked string
	predJSON     bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict survival for a passenger profile",
	Long: `Predict survival for a passenger profile with a logistic-regression model
trained on the whole manifest. Pass an empty --age, --fare or --embarked to
have the value imputed from the training data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, log, err := newApp(false)
		if err != nil {
			return err
		}
		defer log.Sync()
		q := predict.Query{
			dataset.ColPclass:   strconv.Itoa(predPclass),
			dataset.ColSex:      predSex,
			dataset.ColAge:      predAge,
			dataset.ColSibSp:    strconv.Itoa(predSibSp),
			dataset.ColParch:    strconv.Itoa(predParch),
			dataset.ColFare:     predFare,
			dataset.ColEmbarked: predEmbarked,
		}
		switch strings.ToLower(predSex) {
		case "male", "female":
		default:
			return fmt.Errorf("invalid --sex: %s (use male or female)", predSex)
		}
		res, err := app.Predict(q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if predJSON {
			b, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		fmt.Fprintf(out, "✓ Prediction: %s (confidence %.1f%%, survival probability %.3f)\n",
			res.Label, res.Probability*100, res.SurvivalProbability)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	f := predictCmd.Flags()
	f.IntVar(&predPclass, "pclass", 3, "ticket class (1-3)")
	f.StringVar(&predSex, "sex", "male", "male or female")
	f.StringVar(&predAge, "age", "30", "age in years (0-100, empty = impute)")
	f.IntVar(&predSibSp, "sibsp", 0, "siblings/spouses aboard (0-10)")
	f.IntVar(&predParch, "parch", 0, "parents/children aboard (0-10)")
	f.StringVar(&predFare, "fare", "32", "ticket fare (0-513, empty = impute)")
	f.StringVar(&predEmbarked, "embarked", "S", "port of embarkation: C, Q or S (empty = impute)")
	f.BoolVar(&predJSON, "json", false, "print the result as JSON")
}
