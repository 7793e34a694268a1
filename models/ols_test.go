package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOLSRegressionFit(t *testing.T) {
	x, y := generatePlane(40, -1, []float64{2.5, -3})

	model := NewOLSRegression(nil)
	require.NoError(t, model.Fit(x, y))

	assert.InDelta(t, -1, model.Intercept(), 1e-9)
	require.Len(t, model.Coef(), 2)
	assert.InDelta(t, 2.5, model.Coef()[0], 1e-9)
	assert.InDelta(t, -3, model.Coef()[1], 1e-9)

	score, err := model.Score(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestOLSRegressionNoIntercept(t *testing.T) {
	x, y := generatePlane(40, 0, []float64{2})

	model := NewOLSRegression(&OLSOptions{FitIntercept: false})
	require.NoError(t, model.Fit(x, y))

	assert.Zero(t, model.Intercept())
	require.Len(t, model.Coef(), 1)
	assert.InDelta(t, 2, model.Coef()[0], 1e-9)
}

func TestOLSRegressionErrors(t *testing.T) {
	testData := map[string]struct {
		x        mat.Matrix
		y        []float64
		expected error
	}{
		"nil matrix":    {nil, []float64{1}, ErrNoDesignMatrix},
		"size mismatch": {mat.NewDense(2, 1, []float64{1, 2}), []float64{1}, ErrObsYSizeMismatch},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model := NewOLSRegression(nil)
			assert.ErrorIs(t, model.Fit(td.x, td.y), td.expected)
		})
	}
}
