package forecast

import (
	"errors"
	"time"

	"github.com/DoctorN8/service-desk-analytics/event"
)

const (
	// Fourier orders per seasonal period.
	WeeklyOrder = 3
	YearlyOrder = 6
	DailyOrder  = 4

	// Seasonal period lengths in seconds.
	weeklyPeriod = 7 * 24 * 60 * 60
	yearlyPeriod = 365.25 * 24 * 60 * 60
	dailyPeriod  = 24 * 60 * 60
)

var (
	ErrInvalidSensitivity       = errors.New("changepoint sensitivity must be in (0, 1]")
	ErrInvalidChangepointRange  = errors.New("changepoint range must be in (0, 1]")
	ErrInvalidIntervalWidth     = errors.New("interval width must be in (0, 1)")
	ErrInvalidUncertaintyConfig = errors.New("uncertainty samples must be positive")
)

// Options configures a forecast fit.
type Options struct {
	// Seasonal components toggled per metric. Daily seasonality only has an
	// effect when observations are sub-daily.
	DailySeasonality  bool `json:"daily_seasonality"`
	WeeklySeasonality bool `json:"weekly_seasonality"`
	YearlySeasonality bool `json:"yearly_seasonality"`

	// ChangepointSensitivity controls trend flexibility in (0, 1]. Lower
	// values penalize changepoint coefficients harder, producing a stiffer
	// trend.
	ChangepointSensitivity float64 `json:"changepoint_sensitivity"`

	// NumChangepoints candidate trend bends are placed evenly over the
	// first ChangepointRange fraction of the training window.
	NumChangepoints  int     `json:"num_changepoints"`
	ChangepointRange float64 `json:"changepoint_range"`

	// Events are known calendar windows fit as their own regressors.
	Events []event.Event `json:"events"`

	// RemoveOutliers drops Tukey-fence outlier days before fitting so a
	// single incident spike does not bend the trend.
	RemoveOutliers bool `json:"remove_outliers"`

	// UncertaintySamples is the number of simulated trend paths used to
	// derive future prediction intervals of IntervalWidth coverage.
	UncertaintySamples int     `json:"uncertainty_samples"`
	IntervalWidth      float64 `json:"interval_width"`

	// Solver passthrough.
	Iterations int     `json:"iterations"`
	Tolerance  float64 `json:"tolerance"`
}

// NewDefaultOptions returns the options used when Fit is given nil.
func NewDefaultOptions() *Options {
	return &Options{
		WeeklySeasonality:      true,
		YearlySeasonality:      true,
		ChangepointSensitivity: 0.05,
		NumChangepoints:        25,
		ChangepointRange:       0.8,
		UncertaintySamples:     200,
		IntervalWidth:          0.95,
		Iterations:             1000,
		Tolerance:              1e-4,
	}
}

func (o *Options) Validate() error {
	if o.ChangepointSensitivity <= 0 || o.ChangepointSensitivity > 1 {
		return ErrInvalidSensitivity
	}
	if o.ChangepointRange <= 0 || o.ChangepointRange > 1 {
		return ErrInvalidChangepointRange
	}
	if o.IntervalWidth <= 0 || o.IntervalWidth >= 1 {
		return ErrInvalidIntervalWidth
	}
	if o.UncertaintySamples <= 0 {
		return ErrInvalidUncertaintyConfig
	}
	if o.NumChangepoints < 0 {
		o.NumChangepoints = 0
	}
	for _, evt := range o.Events {
		if err := evt.Valid(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) seasonalityPeriods() []seasonalPeriod {
	var periods []seasonalPeriod
	if o.DailySeasonality {
		periods = append(periods, seasonalPeriod{"daily", dailyPeriod, DailyOrder})
	}
	if o.WeeklySeasonality {
		periods = append(periods, seasonalPeriod{"weekly", weeklyPeriod, WeeklyOrder})
	}
	if o.YearlySeasonality {
		periods = append(periods, seasonalPeriod{"yearly", yearlyPeriod, YearlyOrder})
	}
	return periods
}

type seasonalPeriod struct {
	name    string
	seconds float64
	order   int
}

// trainingWindow is the span the linear growth feature is normalized over.
func trainingWindow(start, end time.Time) float64 {
	return end.Sub(start).Seconds()
}
