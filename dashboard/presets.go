package dashboard

import (
	"time"

	"github.com/DoctorN8/service-desk-analytics/event"
	"github.com/DoctorN8/service-desk-analytics/forecast"
)

// Per-metric forecast presets. Ticket volume follows office rhythms so it
// carries the full seasonal set plus US holiday regressors. Backlog is a
// level that drifts with staffing, so it gets weekly seasonality only and
// a stiffer trend.

func ticketVolumeOptions(trainStart, horizonEnd time.Time) *forecast.Options {
	opt := forecast.NewDefaultOptions()
	opt.DailySeasonality = true
	opt.WeeklySeasonality = true
	opt.YearlySeasonality = true
	opt.ChangepointSensitivity = 0.05
	opt.Events = event.USFederalHolidays(trainStart, horizonEnd)
	return opt
}

func backlogOptions() *forecast.Options {
	opt := forecast.NewDefaultOptions()
	opt.WeeklySeasonality = true
	opt.YearlySeasonality = false
	opt.ChangepointSensitivity = 0.1
	return opt
}
