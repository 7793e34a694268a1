// Package forecast fits an additive model to a daily time series and
// projects it forward with prediction intervals. The model decomposes into
// a piecewise linear trend, Fourier seasonality and event regressors, fit
// jointly with an L1 penalty on the changepoint terms.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/DoctorN8/service-desk-analytics/feature"
	"github.com/DoctorN8/service-desk-analytics/models"
	"github.com/DoctorN8/service-desk-analytics/timeseries"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrUntrainedModel = errors.New("forecast model has not been fit")
	ErrNoTimestamps   = errors.New("no prediction timestamps")
	ErrFitFailed      = errors.New("forecast fit produced no usable model")
)

// Components breaks a prediction into its additive parts. Summing the
// parts with the intercept reproduces the point forecast.
type Components struct {
	Trend       []float64 `json:"trend"`
	Seasonality []float64 `json:"seasonality"`
	Event       []float64 `json:"event"`
}

// Model is a fitted forecast. Fitting happens once per training window and
// the model can then predict any set of timestamps, past or future.
type Model struct {
	opt *Options

	trainStart   time.Time
	trainEnd     time.Time
	changepoints []Changepoint

	fLabels     *feature.Labels
	intercept   float64
	coef        []float64
	residualStd float64
	scores      *Scores

	trained bool
}

// Fit trains a forecast model on the series. A nil opt uses defaults. The
// series must carry at least timeseries.MinObservations rows.
func Fit(series *timeseries.TimeSeries, opt *Options) (*Model, error) {
	if series == nil || series.Len() == 0 {
		return nil, timeseries.ErrNoObservations
	}
	if series.Len() < timeseries.MinObservations {
		return nil, timeseries.ErrInsufficientData
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if opt.RemoveOutliers {
		series = series.WithoutOutliers(0.25, 0.75, 1.5)
	}

	trainStart := series.Start()
	trainEnd := series.End()
	chpts := generateChangepoints(trainStart, trainEnd, opt.NumChangepoints, opt.ChangepointRange)

	feat := generateFeatures(series.T, opt, trainStart, trainEnd, chpts)
	fLabels := feat.Labels()
	x := feat.Matrix()

	// Scale the penalty by the series spread so sensitivity behaves
	// consistently across metrics of different magnitude.
	lassoOpt := models.NewDefaultLassoOptions()
	lassoOpt.Lambda = 0.01 * stat.StdDev(series.Y, nil) * float64(series.Len()) / opt.ChangepointSensitivity
	lassoOpt.PenaltyWeights = penaltyWeights(fLabels)
	if opt.Iterations > 0 {
		lassoOpt.Iterations = opt.Iterations
	}
	if opt.Tolerance > 0 {
		lassoOpt.Tolerance = opt.Tolerance
	}

	lasso := models.NewLassoRegression(lassoOpt)
	if err := lasso.Fit(x, series.Y); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFitFailed, err)
	}
	for _, w := range append([]float64{lasso.Intercept()}, lasso.Coef()...) {
		if math.IsInf(w, 0) || math.IsNaN(w) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrFitFailed)
		}
	}

	m := &Model{
		opt:          opt,
		trainStart:   trainStart,
		trainEnd:     trainEnd,
		changepoints: chpts,
		fLabels:      fLabels,
		intercept:    lasso.Intercept(),
		coef:         lasso.Coef(),
		trained:      true,
	}

	predicted, _, err := m.Predict(series.T)
	if err != nil {
		return nil, fmt.Errorf("unable to score forecast model, %w", err)
	}

	residuals := make([]float64, series.Len())
	floats.SubTo(residuals, series.Y, predicted)
	m.residualStd = stat.StdDev(residuals, nil)

	scores, err := NewScores(predicted, series.Y)
	if err != nil {
		return nil, fmt.Errorf("unable to score forecast model, %w", err)
	}
	m.scores = scores

	return m, nil
}

// Predict evaluates the model at the given timestamps along with the
// additive component breakdown.
func (m *Model) Predict(t []time.Time) ([]float64, Components, error) {
	if !m.trained {
		return nil, Components{}, ErrUntrainedModel
	}
	if len(t) == 0 {
		return nil, Components{}, ErrNoTimestamps
	}

	feat := generateFeatures(t, m.opt, m.trainStart, m.trainEnd, m.changepoints)

	n := len(t)
	res := make([]float64, n)
	comp := Components{
		Trend:       make([]float64, n),
		Seasonality: make([]float64, n),
		Event:       make([]float64, n),
	}
	floats.AddConst(m.intercept, res)
	floats.AddConst(m.intercept, comp.Trend)

	for j, label := range m.fLabels.Labels() {
		col, exists := feat.Get(label)
		if !exists {
			return nil, Components{}, fmt.Errorf("missing feature column %q", label.String())
		}

		w := m.coef[j]
		if w == 0 {
			continue
		}
		floats.AddScaled(res, w, col)

		switch label.Type() {
		case feature.FeatureTypeGrowth, feature.FeatureTypeChangepoint:
			floats.AddScaled(comp.Trend, w, col)
		case feature.FeatureTypeSeasonality:
			floats.AddScaled(comp.Seasonality, w, col)
		case feature.FeatureTypeEvent:
			floats.AddScaled(comp.Event, w, col)
		}
	}
	return res, comp, nil
}

// TrainingStart returns the first day of the training window.
func (m *Model) TrainingStart() time.Time {
	return m.trainStart
}

// TrainingEnd returns the last day of the training window.
func (m *Model) TrainingEnd() time.Time {
	return m.trainEnd
}

// ResidualStd returns the standard deviation of in-sample residuals.
func (m *Model) ResidualStd() float64 {
	return m.residualStd
}

// Scores returns the in-sample fit scores.
func (m *Model) Scores() Scores {
	if m.scores == nil {
		return Scores{}
	}
	return *m.scores
}

// Coefficients maps feature labels to their fitted weights, skipping
// weights shrunk to zero.
func (m *Model) Coefficients() map[string]float64 {
	coefs := make(map[string]float64)
	for j, label := range m.fLabels.Labels() {
		if m.coef[j] != 0 {
			coefs[label.String()] = m.coef[j]
		}
	}
	return coefs
}
