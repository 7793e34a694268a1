package timeseries

import (
	"math"
	"sort"
	"time"
)

// DetectOutliers flags indices of y falling outside the Tukey fences built
// from the lower and upper percentiles. A tukeyFactor of 0 flags anything
// outside the percentile range itself.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	sorted := make([]float64, len(y))
	copy(sorted, y)
	sort.Float64s(sorted)

	lowerIdx := int(math.Floor(float64(len(sorted)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(sorted)) * upperPerc))
	if upperIdx >= len(sorted) {
		upperIdx = len(sorted) - 1
	}

	lower := sorted[lowerIdx]
	upper := sorted[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// WithoutOutliers returns a copy of the series with Tukey-fence outliers
// removed. If removal would drop the series below MinObservations the
// original series is returned untouched.
func (ts *TimeSeries) WithoutOutliers(lowerPerc, upperPerc, tukeyFactor float64) *TimeSeries {
	outliers := DetectOutliers(ts.Y, lowerPerc, upperPerc, tukeyFactor)
	if len(outliers) == 0 || ts.Len()-len(outliers) < MinObservations {
		return ts
	}

	drop := make(map[int]bool, len(outliers))
	for _, idx := range outliers {
		drop[idx] = true
	}

	t := make([]time.Time, 0, ts.Len()-len(outliers))
	y := make([]float64, 0, ts.Len()-len(outliers))
	for i := range ts.T {
		if drop[i] {
			continue
		}
		t = append(t, ts.T[i])
		y = append(y, ts.Y[i])
	}
	return &TimeSeries{T: t, Y: y}
}
