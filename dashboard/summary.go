package dashboard

import (
	"github.com/DoctorN8/service-desk-analytics/forecast"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary reduces the future rows of a forecast table to the headline
// numbers shown on a panel card.
type Summary struct {
	// Mean and Peak are over the point forecasts of the horizon.
	Mean float64 `json:"mean"`
	Peak float64 `json:"peak"`

	// Total is the sum of the point forecasts over the horizon.
	Total float64 `json:"total"`

	// Delta is the expected peak minus the last observed value, the
	// headline "how much worse does this get" number.
	Delta float64 `json:"delta"`
}

// Summarize reduces the future view of a forecast table against the last
// observed historical value. It is pure and never fails, mirroring the
// table it is given.
func Summarize(future *forecast.Table, lastObserved float64) Summary {
	if future == nil || future.Len() == 0 {
		return Summary{}
	}

	peak := floats.Max(future.Point)
	return Summary{
		Mean:  stat.Mean(future.Point, nil),
		Peak:  peak,
		Total: floats.Sum(future.Point),
		Delta: peak - lastObserved,
	}
}
