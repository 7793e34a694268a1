// Package models provides the linear regression solvers used to fit a
// forecast design matrix, an L1-regularized coordinate descent lasso and an
// ordinary least squares fallback.
package models

import "gonum.org/v1/gonum/mat"

// Model is the interface for any regression model fit on an
// observations-by-features matrix.
type Model interface {
	Fit(x mat.Matrix, y []float64) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x mat.Matrix, y []float64) (float64, error)
	Intercept() float64
	Coef() []float64
}
