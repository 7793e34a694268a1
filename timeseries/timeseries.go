// Package timeseries builds canonical daily time series from warehouse rows.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInsufficientData = errors.New("insufficient observations to estimate weekly seasonality")

	// ErrNoObservations is the empty-series case of ErrInsufficientData,
	// kept distinct so callers can tell "nothing at all" from "too few".
	ErrNoObservations = fmt.Errorf("no observations, %w", ErrInsufficientData)

	ErrLenMismatch   = errors.New("dates and values have different lengths")
	ErrNonIncreasing = errors.New("dates are not strictly increasing")
	ErrNegativeValue = errors.New("negative or non-finite value")
)

// MinObservations is the floor on daily observations required before a
// seasonal decomposition is worth fitting. Two full weekly cycles.
const MinObservations = 14

// TimeSeries is an ordered sequence of (calendar day, value) pairs. Days are
// normalized to midnight UTC and strictly increasing; values are non-negative.
// Missing days are absent rows, not zeroes. Immutable once built.
type TimeSeries struct {
	T []time.Time
	Y []float64
}

// New validates the input rows and returns a TimeSeries. Dates are truncated
// to their UTC calendar day. Fewer than MinObservations rows returns
// ErrInsufficientData.
func New(t []time.Time, y []float64) (*TimeSeries, error) {
	if len(y) == 0 {
		return nil, ErrNoObservations
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf("%d dates but %d values, %w", len(t), len(y), ErrLenMismatch)
	}
	if len(y) < MinObservations {
		return nil, fmt.Errorf("got %d daily observations, need at least %d, %w", len(y), MinObservations, ErrInsufficientData)
	}

	days := make([]time.Time, len(t))
	vals := make([]float64, len(y))
	var last time.Time
	for i := range t {
		day := Day(t[i])
		if !day.After(last) {
			return nil, fmt.Errorf("at row %d (%s), %w", i, day.Format(time.DateOnly), ErrNonIncreasing)
		}
		if y[i] < 0 || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("at row %d, value %f, %w", i, y[i], ErrNegativeValue)
		}
		days[i] = day
		vals[i] = y[i]
		last = day
	}
	return &TimeSeries{T: days, Y: vals}, nil
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	ut := t.UTC()
	return time.Date(ut.Year(), ut.Month(), ut.Day(), 0, 0, 0, 0, time.UTC)
}

func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.T)
}

// Start returns the first observed day.
func (ts *TimeSeries) Start() time.Time {
	return ts.T[0]
}

// End returns the last observed day.
func (ts *TimeSeries) End() time.Time {
	return ts.T[len(ts.T)-1]
}

// LastValue returns the most recent observation.
func (ts *TimeSeries) LastValue() float64 {
	return ts.Y[len(ts.Y)-1]
}

func (ts *TimeSeries) Copy() *TimeSeries {
	t := make([]time.Time, len(ts.T))
	y := make([]float64, len(ts.Y))
	copy(t, ts.T)
	copy(y, ts.Y)
	return &TimeSeries{T: t, Y: y}
}
