package predict

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// TrainOptions controls gradient descent.
type TrainOptions struct {
	LearningRate float64
	Epochs       int
	// C is the inverse L2 regularization strength. Zero or negative disables
	// the penalty.
	C float64
	// Tolerance stops training early once every gradient component is
	// smaller than it.
	Tolerance float64
}

// DefaultTrainOptions matches a conventional L2 logistic regression.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{LearningRate: 0.5, Epochs: 1000, C: 1, Tolerance: 1e-6}
}

// Logistic is a fitted binary logistic regression.
type Logistic struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	Epochs    int       `json:"epochs"`
}

// trainLogistic runs full-batch gradient descent from zero weights, so the
// result depends only on the data and options. The intercept is not
// penalized.
func trainLogistic(X [][]float64, y []float64, opt TrainOptions) Logistic {
	n := len(X)
	if n == 0 {
		return Logistic{}
	}
	d := len(X[0])
	w := make([]float64, d)
	var b float64
	grad := make([]float64, d)
	epochs := 0
	for epochs < opt.Epochs {
		epochs++
		for k := range grad {
			grad[k] = 0
		}
		var gb float64
		for i, x := range X {
			e := sigmoid(floats.Dot(w, x)+b) - y[i]
			floats.AddScaled(grad, e, x)
			gb += e
		}
		floats.Scale(1/float64(n), grad)
		gb /= float64(n)
		if opt.C > 0 {
			floats.AddScaled(grad, 1/(opt.C*float64(n)), w)
		}
		floats.AddScaled(w, -opt.LearningRate, grad)
		b -= opt.LearningRate * gb
		if opt.Tolerance > 0 && math.Abs(gb) < opt.Tolerance && maxAbs(grad) < opt.Tolerance {
			break
		}
	}
	return Logistic{Weights: w, Intercept: b, Epochs: epochs}
}

// Probability returns P(y=1 | x).
func (l Logistic) Probability(x []float64) float64 {
	return sigmoid(floats.Dot(l.Weights, x) + l.Intercept)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func maxAbs(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(v)), math.Abs(floats.Min(v)))
}
