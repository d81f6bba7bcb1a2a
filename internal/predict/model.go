// Package predict fits and serves the survival classifier: median/mode
// imputation, standard scaling and one-hot encoding feeding an L2-regularized
// logistic regression.
package predict

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// Label is the predicted outcome.
type Label string

const (
	Survived      Label = "Survived"
	DidNotSurvive Label = "DidNotSurvive"
)

// Threshold separates the two labels on the survival probability.
const Threshold = 0.5

// Result is the outcome of scoring one query.
type Result struct {
	Label Label `json:"label"`
	// Probability is the model's confidence in Label.
	Probability float64 `json:"probability"`
	// SurvivalProbability is P(Survived) regardless of Label.
	SurvivalProbability float64 `json:"survival_probability"`
}

// Model is an immutable fitted pipeline. Safe for concurrent use.
type Model struct {
	ID       string       `json:"id"`
	Version  string       `json:"dataset_version"`
	Rows     int          `json:"rows"`
	FittedAt time.Time    `json:"fitted_at"`
	Pre      Preprocessor `json:"preprocessor"`
	Clf      Logistic     `json:"classifier"`
}

// Fit learns preprocessing statistics and classifier weights from every row
// of d. Training is deterministic: the same dataset and options always yield
// the same weights.
func Fit(d *dataset.Dataset, opt TrainOptions) (*Model, error) {
	if d == nil || d.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if opt.Epochs <= 0 || opt.LearningRate <= 0 {
		return nil, fmt.Errorf("invalid training options: learning rate %g, epochs %d", opt.LearningRate, opt.Epochs)
	}
	rows := make([]row, d.Len())
	y := make([]float64, d.Len())
	for i := 0; i < d.Len(); i++ {
		p := d.Row(i)
		rows[i] = passengerRow(p)
		y[i] = float64(p.Survived)
	}
	pre := fitPreprocessor(rows)
	X := make([][]float64, len(rows))
	for i, r := range rows {
		X[i] = pre.transform(r)
	}
	return &Model{
		ID:       uuid.NewString(),
		Version:  d.Version,
		Rows:     d.Len(),
		FittedAt: time.Now().UTC(),
		Pre:      pre,
		Clf:      trainLogistic(X, y, opt),
	}, nil
}

// Predict scores a single query. Absent features or unparseable values yield
// a *SchemaMismatchError; empty values are imputed.
func (m *Model) Predict(q Query) (Result, error) {
	r, err := q.parse()
	if err != nil {
		return Result{}, err
	}
	p := m.Clf.Probability(m.Pre.transform(r))
	if p >= Threshold {
		return Result{Label: Survived, Probability: p, SurvivalProbability: p}, nil
	}
	return Result{Label: DidNotSurvive, Probability: 1 - p, SurvivalProbability: p}, nil
}
