package forecast

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/DoctorN8/service-desk-analytics/feature"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// simulationSeed fixes the base stream for trend path simulation. Each
// path derives its own stream from the path index so the same model always
// produces identical intervals and extending the horizon never changes the
// days already simulated.
const simulationSeed uint64 = 7919

// intervalZ converts an interval width into the matching normal quantile,
// e.g. 0.95 yields roughly 1.96.
func intervalZ(width float64) float64 {
	return distuv.UnitNormal.Quantile(0.5 + width/2)
}

// slopeScale estimates the per-day magnitude of historical trend bends as
// the mean absolute daily slope change over all changepoint candidates.
// Candidates shrunk to zero count towards the mean, so a stiff fit yields
// a small scale and narrow future intervals.
func (m *Model) slopeScale() float64 {
	if len(m.changepoints) == 0 {
		return 0
	}

	rampByName := make(map[string]float64, len(m.changepoints))
	for _, chpt := range m.changepoints {
		rampByName[chpt.Name] = m.trainEnd.Sub(chpt.T).Hours() / 24
	}

	var total float64
	var cnt int
	for j, label := range m.fLabels.Labels() {
		if label.Type() != feature.FeatureTypeChangepoint {
			continue
		}
		comp, _ := label.Get("changepoint_component")
		if comp != string(feature.ChangepointCompSlope) {
			continue
		}
		name, _ := label.Get("name")
		ramp := rampByName[name]
		if ramp <= 0 {
			continue
		}
		total += math.Abs(m.coef[j]) / ramp
		cnt++
	}
	if cnt == 0 {
		return 0
	}
	return total / float64(cnt)
}

// simulateIntervals derives future prediction bounds by simulating
// opt.UncertaintySamples trend paths over the future days. Each path walks
// day by day, bending its slope at random days with the same frequency
// changepoints occurred in history, and layering observation noise on top.
func (m *Model) simulateIntervals(future []time.Time, point []float64) (lower, upper []float64) {
	n := len(future)
	lower = make([]float64, n)
	upper = make([]float64, n)
	if n == 0 {
		return lower, upper
	}

	historyDays := m.trainEnd.Sub(m.trainStart).Hours()/24 + 1
	changeProb := float64(len(m.changepoints)) / historyDays
	if changeProb > 1 {
		changeProb = 1
	}
	scale := m.slopeScale()

	samples := make([][]float64, n)
	for i := range samples {
		samples[i] = make([]float64, m.opt.UncertaintySamples)
	}

	for s := 0; s < m.opt.UncertaintySamples; s++ {
		rng := rand.New(rand.NewPCG(simulationSeed, uint64(s)))

		var slopeOffset, deviation float64
		for i := 0; i < n; i++ {
			if rng.Float64() < changeProb && scale > 0 {
				slopeOffset += laplace(rng, scale)
			}
			deviation += slopeOffset
			samples[i][s] = point[i] + deviation + rng.NormFloat64()*m.residualStd
		}
	}

	alpha := (1 - m.opt.IntervalWidth) / 2
	for i := 0; i < n; i++ {
		sort.Float64s(samples[i])
		lower[i] = stat.Quantile(alpha, stat.Empirical, samples[i], nil)
		upper[i] = stat.Quantile(1-alpha, stat.Empirical, samples[i], nil)
	}
	return lower, upper
}

// laplace draws from a zero-centered Laplace distribution with scale b.
func laplace(rng *rand.Rand, b float64) float64 {
	u := rng.Float64() - 0.5
	mag := 1 - 2*math.Abs(u)
	if mag <= 0 {
		mag = math.SmallestNonzeroFloat64
	}
	if u < 0 {
		return b * math.Log(mag)
	}
	return -b * math.Log(mag)
}
