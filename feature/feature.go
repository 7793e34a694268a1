// Package feature defines the regressor labels that make up a forecast
// design matrix and the Set container that materializes them.
package feature

type FeatureType int

const (
	FeatureTypeChangepoint FeatureType = iota
	FeatureTypeSeasonality
	FeatureTypeGrowth
	FeatureTypeEvent
)

func (f FeatureType) String() string {
	switch f {
	case FeatureTypeChangepoint:
		return "changepoint"
	case FeatureTypeSeasonality:
		return "seasonality"
	case FeatureTypeGrowth:
		return "growth"
	case FeatureTypeEvent:
		return "event"
	}
	return "unknown"
}

// Feature labels a single column of the design matrix. The String form is
// the stable identity used to align coefficients with columns.
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}
