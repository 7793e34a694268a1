package dashboard

import (
	"testing"
	"time"

	"github.com/DoctorN8/service-desk-analytics/forecast"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	future := &forecast.Table{
		T:           []time.Time{day, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2), day.AddDate(0, 0, 3)},
		Point:       []float64{10, 30, 20, 40},
		Lower:       []float64{5, 25, 15, 35},
		Upper:       []float64{15, 35, 25, 45},
		HorizonDays: 4,
	}

	got := Summarize(future, 25)
	assert.Equal(t, 25.0, got.Mean)
	assert.Equal(t, 40.0, got.Peak)
	assert.Equal(t, 100.0, got.Total)
	assert.Equal(t, 15.0, got.Delta)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, 10))
	assert.Equal(t, Summary{}, Summarize(&forecast.Table{}, 10))
}
