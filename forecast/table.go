package forecast

import (
	"errors"
	"time"
)

var ErrInvalidHorizon = errors.New("forecast horizon must be a positive number of days")

// Table is a contiguous daily forecast frame covering the full training
// window plus horizonDays of future. Every row carries a point forecast
// with lower and upper prediction bounds.
type Table struct {
	T     []time.Time `json:"t"`
	Point []float64   `json:"point"`
	Lower []float64   `json:"lower"`
	Upper []float64   `json:"upper"`

	// HorizonDays is the number of trailing rows that lie beyond the
	// training window.
	HorizonDays int `json:"horizon_days"`
}

func (tbl *Table) Len() int {
	return len(tbl.T)
}

// Future returns the view of the table holding only the rows beyond the
// training window. The slices share memory with the full table.
func (tbl *Table) Future() *Table {
	histN := tbl.Len() - tbl.HorizonDays
	return &Table{
		T:           tbl.T[histN:],
		Point:       tbl.Point[histN:],
		Lower:       tbl.Lower[histN:],
		Upper:       tbl.Upper[histN:],
		HorizonDays: tbl.HorizonDays,
	}
}

// Forecast projects the model horizonDays past the training window. The
// frame is daily and gap free, starting at the first training day. Rows
// inside the training window get residual based bounds while future rows
// get simulated bounds. Calling Forecast twice with the same horizon gives
// identical tables, and a longer horizon only appends rows.
func (m *Model) Forecast(horizonDays int) (*Table, error) {
	if !m.trained {
		return nil, ErrUntrainedModel
	}
	if horizonDays <= 0 {
		return nil, ErrInvalidHorizon
	}

	historyDays := int(m.trainEnd.Sub(m.trainStart).Hours()/24) + 1
	total := historyDays + horizonDays

	t := make([]time.Time, total)
	for i := 0; i < total; i++ {
		t[i] = m.trainStart.AddDate(0, 0, i)
	}

	point, _, err := m.Predict(t)
	if err != nil {
		return nil, err
	}

	lower := make([]float64, total)
	upper := make([]float64, total)

	z := intervalZ(m.opt.IntervalWidth)
	for i := 0; i < historyDays; i++ {
		lower[i] = point[i] - z*m.residualStd
		upper[i] = point[i] + z*m.residualStd
	}

	futLower, futUpper := m.simulateIntervals(t[historyDays:], point[historyDays:])
	copy(lower[historyDays:], futLower)
	copy(upper[historyDays:], futUpper)

	return &Table{
		T:           t,
		Point:       point,
		Lower:       lower,
		Upper:       upper,
		HorizonDays: horizonDays,
	}, nil
}
