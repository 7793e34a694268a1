package forecast

import (
	"fmt"
	"time"
)

// Changepoint marks a candidate time where the trend slope may bend. Each
// changepoint contributes a bias and a slope hinge feature to the fit.
type Changepoint struct {
	T    time.Time `json:"time"`
	Name string    `json:"name"`
}

func NewChangepoint(name string, t time.Time) Changepoint {
	return Changepoint{t, name}
}

// generateChangepoints places n candidates evenly over the first
// chptRange fraction of the training window. The changepoint at the very
// start of the window is skipped since it is indistinguishable from the
// base growth term.
func generateChangepoints(start, end time.Time, n int, chptRange float64) []Changepoint {
	if n <= 0 || !end.After(start) {
		return nil
	}

	window := time.Duration(float64(end.Sub(start)) * chptRange)
	step := window / time.Duration(n+1)
	if step <= 0 {
		return nil
	}

	chpts := make([]Changepoint, 0, n)
	for i := 1; i <= n; i++ {
		chpts = append(chpts, NewChangepoint(
			fmt.Sprintf("auto_%02d", i-1),
			start.Add(step*time.Duration(i)),
		))
	}
	return chpts
}
