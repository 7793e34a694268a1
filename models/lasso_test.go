package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSoftThreshold(t *testing.T) {
	testData := map[string]struct {
		x        float64
		gamma    float64
		expected float64
	}{
		"positive above":  {5, 2, 3},
		"positive within": {1, 2, 0},
		"negative below":  {-5, 2, -3},
		"negative within": {-1, 2, 0},
		"zero gamma":      {4, 0, 4},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, SoftThreshold(td.x, td.gamma))
		})
	}
}

func generatePlane(m int, intercept float64, coef []float64) (*mat.Dense, []float64) {
	n := len(coef)
	obs := make([]float64, m*n)
	y := make([]float64, m)
	for i := 0; i < m; i++ {
		v := intercept
		for j := 0; j < n; j++ {
			x := float64((i*7+j*3)%11) - 5
			obs[i*n+j] = x
			v += coef[j] * x
		}
		y[i] = v
	}
	return mat.NewDense(m, n, obs), y
}

func TestLassoRegressionFit(t *testing.T) {
	x, y := generatePlane(40, 2, []float64{3, 4})

	opt := NewDefaultLassoOptions()
	opt.Lambda = 0
	opt.Iterations = 5000
	opt.Tolerance = 1e-9

	model := NewLassoRegression(opt)
	require.NoError(t, model.Fit(x, y))

	assert.InDelta(t, 2, model.Intercept(), 1e-6)
	require.Len(t, model.Coef(), 2)
	assert.InDelta(t, 3, model.Coef()[0], 1e-6)
	assert.InDelta(t, 4, model.Coef()[1], 1e-6)

	score, err := model.Score(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestLassoRegressionPenaltyWeights(t *testing.T) {
	x, y := generatePlane(40, 2, []float64{3, 4})

	// heavy penalty on the first column only should shrink it to zero
	// while the unpenalized second column keeps a nonzero coefficient
	opt := NewDefaultLassoOptions()
	opt.Lambda = 1e6
	opt.PenaltyWeights = []float64{1, 0}
	opt.Iterations = 5000
	opt.Tolerance = 1e-9

	model := NewLassoRegression(opt)
	require.NoError(t, model.Fit(x, y))

	require.Len(t, model.Coef(), 2)
	assert.Zero(t, model.Coef()[0])
	assert.NotZero(t, model.Coef()[1])
}

func TestLassoRegressionShrinkage(t *testing.T) {
	x, y := generatePlane(40, 2, []float64{3, 4})

	unpenalized := NewDefaultLassoOptions()
	unpenalized.Lambda = 0
	base := NewLassoRegression(unpenalized)
	require.NoError(t, base.Fit(x, y))

	penalized := NewDefaultLassoOptions()
	penalized.Lambda = 50
	shrunk := NewLassoRegression(penalized)
	require.NoError(t, shrunk.Fit(x, y))

	for j := range shrunk.Coef() {
		assert.LessOrEqual(t, abs(shrunk.Coef()[j]), abs(base.Coef()[j])+1e-9)
	}
}

func TestLassoRegressionErrors(t *testing.T) {
	testData := map[string]struct {
		x        mat.Matrix
		y        []float64
		opt      *LassoOptions
		expected error
	}{
		"nil matrix": {
			nil, []float64{1}, nil, ErrNoDesignMatrix,
		},
		"size mismatch": {
			mat.NewDense(2, 1, []float64{1, 2}), []float64{1}, nil, ErrObsYSizeMismatch,
		},
		"penalty mismatch": {
			mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			[]float64{1, 2},
			&LassoOptions{Lambda: 1, PenaltyWeights: []float64{1}, Iterations: 10, Tolerance: 1e-4},
			ErrPenaltyLenMismatch,
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model := NewLassoRegression(td.opt)
			assert.ErrorIs(t, model.Fit(td.x, td.y), td.expected)
		})
	}
}

func TestLassoRegressionUntrained(t *testing.T) {
	model := NewLassoRegression(nil)
	_, err := model.Predict(mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrUntrainedModel)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
