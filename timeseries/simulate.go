package timeseries

import (
	"math"
	"math/rand/v2"
	"time"
)

// Test-data generators for exercising the forecast engine against series
// with known structure.

// DailyDates generates n consecutive UTC calendar days starting at start.
func DailyDates(start time.Time, n int) []time.Time {
	day := Day(start)
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, day.AddDate(0, 0, i))
	}
	return t
}

// Constant generates n copies of val.
func Constant(n int, val float64) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = val
	}
	return y
}

// LinearTrend generates a line base + slope*i over n days.
func LinearTrend(n int, base, slope float64) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = base + slope*float64(i)
	}
	return y
}

// AddWeeklyWave overlays a sine wave with a 7 day period and the given
// amplitude onto y in place.
func AddWeeklyWave(t []time.Time, y []float64, amp float64) []float64 {
	const weekSec = 7 * 24 * 60 * 60
	for i := range y {
		y[i] += amp * math.Sin(2.0*math.Pi*float64(t[i].Unix())/weekSec)
	}
	return y
}

// AddNoise overlays seeded gaussian noise onto y in place. Values are clamped
// at zero to keep the series valid for New.
func AddNoise(y []float64, scale float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	for i := range y {
		y[i] += rng.NormFloat64() * scale
		if y[i] < 0 {
			y[i] = 0
		}
	}
	return y
}
