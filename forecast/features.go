package forecast

import (
	"math"
	"time"

	"github.com/DoctorN8/service-desk-analytics/event"
	"github.com/DoctorN8/service-desk-analytics/feature"
)

// generateFeatures materializes the design matrix columns for the given
// timestamps. The same routine serves training and prediction so feature
// semantics cannot drift between the two.
func generateFeatures(t []time.Time, opt *Options, trainStart, trainEnd time.Time, chpts []Changepoint) feature.Set {
	feat := feature.NewSet()

	feat.Update(generateGrowthFeatures(t, trainStart, trainEnd))
	feat.Update(generateSeasonalityFeatures(t, opt))
	feat.Update(generateChangepointFeatures(t, trainEnd, chpts))
	feat.Update(generateEventFeatures(t, opt.Events))

	return feat
}

func generateGrowthFeatures(t []time.Time, trainStart, trainEnd time.Time) feature.Set {
	window := trainingWindow(trainStart, trainEnd)
	if window <= 0 {
		window = 1
	}

	data := make([]float64, len(t))
	for i, tPnt := range t {
		data[i] = tPnt.Sub(trainStart).Seconds() / window
	}

	feat := feature.NewSet()
	feat.Set(feature.Linear(), data)
	return feat
}

func generateSeasonalityFeatures(t []time.Time, opt *Options) feature.Set {
	feat := feature.NewSet()
	for _, period := range opt.seasonalityPeriods() {
		for order := 1; order <= period.order; order++ {
			omega := 2.0 * math.Pi * float64(order) / period.seconds

			sinData := make([]float64, len(t))
			cosData := make([]float64, len(t))
			for i, tPnt := range t {
				rad := omega * float64(tPnt.Unix())
				sinData[i] = math.Sin(rad)
				cosData[i] = math.Cos(rad)
			}
			feat.Set(feature.NewSeasonality(period.name, feature.FourierCompSin, order), sinData)
			feat.Set(feature.NewSeasonality(period.name, feature.FourierCompCos, order), cosData)
		}
	}
	return feat
}

func generateChangepointFeatures(t []time.Time, trainEnd time.Time, chpts []Changepoint) feature.Set {
	feat := feature.NewSet()
	for _, chpt := range chpts {
		ramp := trainEnd.Sub(chpt.T).Seconds()
		if ramp <= 0 {
			continue
		}

		bias := make([]float64, len(t))
		slope := make([]float64, len(t))
		for i, tPnt := range t {
			if tPnt.Before(chpt.T) {
				continue
			}
			bias[i] = 1.0
			slope[i] = tPnt.Sub(chpt.T).Seconds() / ramp
		}
		feat.Set(feature.NewChangepoint(chpt.Name, feature.ChangepointCompBias), bias)
		feat.Set(feature.NewChangepoint(chpt.Name, feature.ChangepointCompSlope), slope)
	}
	return feat
}

func generateEventFeatures(t []time.Time, events []event.Event) feature.Set {
	// multiple occurrences of the same named event share one regressor
	masks := make(map[string][]float64)
	for _, evt := range events {
		mask, exists := masks[evt.Name]
		if !exists {
			mask = make([]float64, len(t))
			masks[evt.Name] = mask
		}
		for i, tPnt := range t {
			if evt.Active(tPnt) {
				mask[i] = 1.0
			}
		}
	}

	feat := feature.NewSet()
	for name, mask := range masks {
		feat.Set(feature.NewEvent(name), mask)
	}
	return feat
}

// penaltyWeights aligns per-column L1 penalty weights to the label order of
// the feature set. Only changepoint columns are penalized so seasonality,
// growth and event coefficients are fit without shrinkage.
func penaltyWeights(labels *feature.Labels) []float64 {
	weights := make([]float64, labels.Len())
	for i, label := range labels.Labels() {
		if label.Type() == feature.FeatureTypeChangepoint {
			weights[i] = 1.0
		}
	}
	return weights
}
