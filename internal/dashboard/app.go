// Package dashboard ties the dataset loader, aggregations, charts and the
// survival model together behind one application object shared by the CLI
// and the HTTP server.
package dashboard

import (
	"errors"
	"sync"
	"time"

	"gonum.org/v1/plot"

	"github.com/KaramelBytes/titanic-insights/internal/analysis"
	"github.com/KaramelBytes/titanic-insights/internal/chart"
	"github.com/KaramelBytes/titanic-insights/internal/config"
	"github.com/KaramelBytes/titanic-insights/internal/dataset"
	"github.com/KaramelBytes/titanic-insights/internal/logger"
	"github.com/KaramelBytes/titanic-insights/internal/predict"
	"github.com/KaramelBytes/titanic-insights/internal/utils"
)

// ErrPredictionDisabled is returned by prediction calls when the feature is
// switched off.
var ErrPredictionDisabled = errors.New("prediction is disabled")

// DefaultSurvivalColumns are the breakdowns shown on the survival page.
var DefaultSurvivalColumns = []string{dataset.ColPclass, dataset.ColSex, dataset.ColEmbarked}

// Options configures an App.
type Options struct {
	DataPath          string
	PredictionEnabled bool
	Train             predict.TrainOptions
	Charts            chart.Options
}

// OptionsFromConfig maps the global configuration onto App options.
func OptionsFromConfig(c *config.Global) Options {
	opts := Options{
		DataPath:          c.DataPath,
		PredictionEnabled: c.PredictionEnabled,
		Train:             predict.DefaultTrainOptions(),
		Charts:            chart.Options{AgeBins: c.AgeBins, FareBins: c.FareBins},
	}
	opts.Train.LearningRate = c.ModelLearningRate
	opts.Train.Epochs = c.ModelEpochs
	opts.Train.C = c.ModelC
	return opts
}

// App is safe for concurrent use.
type App struct {
	opts   Options
	log    *logger.Logger
	loader *dataset.Loader
	models *predict.Cache

	mu          sync.Mutex
	lastVersion string
}

// New creates an App. A relative data path is resolved against the working
// directory and its parents.
func New(opts Options, log *logger.Logger) *App {
	if log == nil {
		log = logger.Nop()
	}
	if p, ok := utils.FindUp("", opts.DataPath); ok {
		opts.DataPath = p
	}
	if opts.Charts.AgeBins <= 0 || opts.Charts.FareBins <= 0 {
		opts.Charts = chart.DefaultOptions()
	}
	return &App{
		opts:   opts,
		log:    log,
		loader: dataset.NewLoader(),
		models: predict.NewCache(opts.Train),
	}
}

// DataPath is the resolved dataset location.
func (a *App) DataPath() string { return a.opts.DataPath }

// PredictionEnabled reports whether the prediction feature is on.
func (a *App) PredictionEnabled() bool { return a.opts.PredictionEnabled }

// Dataset returns the current dataset, re-reading the file only when it has
// changed on disk.
func (a *App) Dataset() (*dataset.Dataset, error) {
	d, err := a.loader.Load(a.opts.DataPath)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	changed := d.Version != a.lastVersion
	a.lastVersion = d.Version
	a.mu.Unlock()
	if changed {
		a.log.Info("dataset loaded", "path", d.Source, "rows", d.Len(), "version", d.Version)
	}
	return d, nil
}

// Overview is the raw-data page: leading rows plus descriptive statistics.
type Overview struct {
	Rows      int                 `json:"rows"`
	Head      []dataset.Passenger `json:"head"`
	Summaries []analysis.Summary  `json:"summaries"`
}

// Overview returns the first n rows (all when n <= 0) and the describe table.
func (a *App) Overview(n int) (Overview, error) {
	d, err := a.Dataset()
	if err != nil {
		return Overview{}, err
	}
	sums, err := analysis.Describe(d)
	if err != nil {
		return Overview{}, err
	}
	return Overview{Rows: d.Len(), Head: d.Rows(0, n), Summaries: sums}, nil
}

// SurvivalReport is the survival page: overall counts and rates by column.
type SurvivalReport struct {
	Overall analysis.View   `json:"overall"`
	Rates   []analysis.View `json:"rates"`
}

// Survival computes overall counts and the survival rate for each column in
// by, or DefaultSurvivalColumns when by is empty.
func (a *App) Survival(by ...string) (SurvivalReport, error) {
	d, err := a.Dataset()
	if err != nil {
		return SurvivalReport{}, err
	}
	if len(by) == 0 {
		by = DefaultSurvivalColumns
	}
	overall, err := analysis.SurvivalCounts(d)
	if err != nil {
		return SurvivalReport{}, err
	}
	rep := SurvivalReport{Overall: overall}
	for _, col := range by {
		v, err := analysis.SurvivalRate(d, col)
		if err != nil {
			return SurvivalReport{}, err
		}
		rep.Rates = append(rep.Rates, v)
	}
	return rep, nil
}

// Demographics is the demographics page.
type Demographics struct {
	Age     analysis.Histogram `json:"age"`
	Fare    analysis.Histogram `json:"fare"`
	AgeFare []analysis.Series  `json:"age_fare"`
}

// Demographics builds the age and fare distributions and the age/fare
// scatter coloured by class.
func (a *App) Demographics() (Demographics, error) {
	d, err := a.Dataset()
	if err != nil {
		return Demographics{}, err
	}
	age, err := analysis.NewHistogram(d, dataset.ColAge, a.opts.Charts.AgeBins)
	if err != nil {
		return Demographics{}, err
	}
	fare, err := analysis.NewHistogram(d, dataset.ColFare, a.opts.Charts.FareBins)
	if err != nil {
		return Demographics{}, err
	}
	series, err := analysis.Scatter(d, dataset.ColAge, dataset.ColFare, dataset.ColPclass)
	if err != nil {
		return Demographics{}, err
	}
	return Demographics{Age: age, Fare: fare, AgeFare: series}, nil
}

// Chart builds the named chart from the current dataset.
func (a *App) Chart(name string) (*plot.Plot, error) {
	d, err := a.Dataset()
	if err != nil {
		return nil, err
	}
	return chart.Build(d, name, a.opts.Charts)
}

// Model returns the model for the current dataset, fitting it on first use.
func (a *App) Model() (*predict.Model, error) {
	if !a.opts.PredictionEnabled {
		return nil, ErrPredictionDisabled
	}
	d, err := a.Dataset()
	if err != nil {
		return nil, err
	}
	fitsBefore := a.models.Fits()
	start := time.Now()
	m, err := a.models.Get(d)
	if err != nil {
		a.log.Error("model fit failed", "version", d.Version, "error", err)
		return nil, err
	}
	if a.models.Fits() != fitsBefore {
		a.log.Info("model fitted", "model_id", m.ID, "rows", m.Rows, "epochs", m.Clf.Epochs, "duration_ms", time.Since(start).Milliseconds())
	}
	return m, nil
}

// ModelState reports the lifecycle of the model for the current dataset.
func (a *App) ModelState() predict.State {
	a.mu.Lock()
	v := a.lastVersion
	a.mu.Unlock()
	if v == "" {
		return predict.StateUntrained
	}
	return a.models.State(v)
}

// EagerFit trains the model up front so the first prediction is fast.
func (a *App) EagerFit() error {
	_, err := a.Model()
	return err
}

// Predict validates q against the form bounds and scores it.
func (a *App) Predict(q predict.Query) (predict.Result, error) {
	if !a.opts.PredictionEnabled {
		return predict.Result{}, ErrPredictionDisabled
	}
	if err := predict.ValidateForm(q); err != nil {
		return predict.Result{}, err
	}
	m, err := a.Model()
	if err != nil {
		return predict.Result{}, err
	}
	res, err := m.Predict(q)
	if err != nil {
		return predict.Result{}, err
	}
	a.log.Debug("prediction", "model_id", m.ID, "label", res.Label, "probability", res.Probability)
	return res, nil
}
