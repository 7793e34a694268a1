package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LassoOptions configures the coordinate descent solver.
type LassoOptions struct {
	// Lambda is the L1 penalty strength. A value of 0 reduces the fit to
	// ordinary least squares.
	Lambda float64

	// PenaltyWeights optionally scales the penalty per feature column. A
	// weight of 0 leaves that column unpenalized. Nil applies the full
	// penalty to every column.
	PenaltyWeights []float64

	Iterations   int
	Tolerance    float64
	FitIntercept bool
}

// NewDefaultLassoOptions returns the default lasso options.
func NewDefaultLassoOptions() *LassoOptions {
	return &LassoOptions{
		Lambda:       1.0,
		Iterations:   1000,
		Tolerance:    1e-4,
		FitIntercept: true,
	}
}

// LassoRegression fits a linear model with an L1 regularizer using
// cyclic coordinate descent with soft thresholding.
type LassoRegression struct {
	opt *LassoOptions

	intercept float64
	coef      []float64
	trained   bool
}

func NewLassoRegression(opt *LassoOptions) *LassoRegression {
	if opt == nil {
		opt = NewDefaultLassoOptions()
	}
	return &LassoRegression{opt: opt}
}

func (l *LassoRegression) Fit(x mat.Matrix, y []float64) error {
	if x == nil {
		return ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if m == 0 || n == 0 {
		return ErrNoTrainingData
	}
	if m != len(y) {
		return ErrObsYSizeMismatch
	}
	if l.opt.PenaltyWeights != nil && len(l.opt.PenaltyWeights) != n {
		return ErrPenaltyLenMismatch
	}

	// column-major copy for cheap column scans during descent
	cols := make([][]float64, n)
	for j := 0; j < n; j++ {
		col := make([]float64, m)
		for i := 0; i < m; i++ {
			col[i] = x.At(i, j)
		}
		cols[j] = col
	}

	yc := make([]float64, m)
	copy(yc, y)

	var ymean float64
	xmean := make([]float64, n)
	if l.opt.FitIntercept {
		ymean = stat.Mean(yc, nil)
		floats.AddConst(-ymean, yc)
		for j := 0; j < n; j++ {
			xmean[j] = stat.Mean(cols[j], nil)
			floats.AddConst(-xmean[j], cols[j])
		}
	}

	norms := make([]float64, n)
	for j := 0; j < n; j++ {
		norms[j] = floats.Dot(cols[j], cols[j])
	}

	w := make([]float64, n)
	residual := make([]float64, m)
	copy(residual, yc)

	for iter := 0; iter < l.opt.Iterations; iter++ {
		var maxDelta float64
		for j := 0; j < n; j++ {
			if norms[j] == 0 {
				continue
			}

			// partial residual excluding feature j
			rho := floats.Dot(cols[j], residual) + norms[j]*w[j]

			gamma := l.opt.Lambda
			if l.opt.PenaltyWeights != nil {
				gamma *= l.opt.PenaltyWeights[j]
			}

			next := SoftThreshold(rho, gamma) / norms[j]
			if delta := math.Abs(next - w[j]); delta > maxDelta {
				maxDelta = delta
			}
			if next != w[j] {
				floats.AddScaled(residual, w[j]-next, cols[j])
				w[j] = next
			}
		}
		if maxDelta < l.opt.Tolerance {
			break
		}
	}

	l.coef = w
	if l.opt.FitIntercept {
		l.intercept = ymean - floats.Dot(xmean, w)
	}
	l.trained = true
	return nil
}

func (l *LassoRegression) Predict(x mat.Matrix) ([]float64, error) {
	if !l.trained {
		return nil, ErrUntrainedModel
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if n != len(l.coef) {
		return nil, ErrFeatureLenMismatch
	}

	res := make([]float64, m)
	for i := 0; i < m; i++ {
		v := l.intercept
		for j := 0; j < n; j++ {
			v += x.At(i, j) * l.coef[j]
		}
		res[i] = v
	}
	return res, nil
}

// Score computes the coefficient of determination of the prediction.
func (l *LassoRegression) Score(x mat.Matrix, y []float64) (float64, error) {
	predicted, err := l.Predict(x)
	if err != nil {
		return 0, err
	}
	if len(predicted) != len(y) {
		return 0, ErrObsYSizeMismatch
	}
	return stat.RSquaredFrom(predicted, y, nil), nil
}

func (l *LassoRegression) Intercept() float64 {
	return l.intercept
}

func (l *LassoRegression) Coef() []float64 {
	return l.coef
}

// SoftThreshold shrinks x towards zero by gamma, clamping at zero.
func SoftThreshold(x, gamma float64) float64 {
	res := math.Max(math.Abs(x)-gamma, 0)
	if x < 0 {
		return -res
	}
	return res
}
