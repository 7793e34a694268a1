package dashboard

import (
	"github.com/DoctorN8/service-desk-analytics/models"
	"github.com/DoctorN8/service-desk-analytics/timeseries"
	"gonum.org/v1/gonum/mat"
)

// trendSlope estimates the average daily change of the observed series by
// ordinary least squares on the day index. This is the raw drift shown
// next to a panel, independent of the forecast model's changepoint trend.
func trendSlope(series *timeseries.TimeSeries) (float64, error) {
	x := mat.NewDense(series.Len(), 1, nil)
	start := series.Start()
	for i, day := range series.T {
		x.Set(i, 0, day.Sub(start).Hours()/24)
	}

	var solver models.Model = models.NewOLSRegression(nil)
	if err := solver.Fit(x, series.Y); err != nil {
		return 0, err
	}
	return solver.Coef()[0], nil
}
