package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DoctorN8/service-desk-analytics/timeseries"
	"github.com/DoctorN8/service-desk-analytics/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	ticketRows  []warehouse.DailyRow
	backlogRows []warehouse.DailyRow
	pulseRows   []warehouse.PulseRow
	techRows    []warehouse.TechnicianRow

	ticketErr  error
	backlogErr error
	pulseErr   error
	techErr    error

	ticketCalls int
}

func (s *stubStore) DailyTicketCounts(ctx context.Context) ([]warehouse.DailyRow, error) {
	s.ticketCalls++
	return s.ticketRows, s.ticketErr
}

func (s *stubStore) BacklogHistory(ctx context.Context, sinceDays int) ([]warehouse.DailyRow, error) {
	return s.backlogRows, s.backlogErr
}

func (s *stubStore) ExecutivePulse(ctx context.Context) ([]warehouse.PulseRow, error) {
	return s.pulseRows, s.pulseErr
}

func (s *stubStore) TechnicianPerformance(ctx context.Context) ([]warehouse.TechnicianRow, error) {
	return s.techRows, s.techErr
}

func dailyRows(start time.Time, y []float64) []warehouse.DailyRow {
	rows := make([]warehouse.DailyRow, len(y))
	for i := range y {
		rows[i] = warehouse.DailyRow{Date: start.AddDate(0, 0, i), Value: y[i]}
	}
	return rows
}

func newTestStore() *stubStore {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := timeseries.DailyDates(start, 90)
	tickets := timeseries.AddNoise(timeseries.AddWeeklyWave(dates, timeseries.Constant(90, 120), 20), 5, 17)
	backlog := timeseries.AddNoise(timeseries.LinearTrend(90, 40, 0.3), 3, 29)

	return &stubStore{
		ticketRows:  dailyRows(start, tickets),
		backlogRows: dailyRows(start, backlog),
	}
}

func TestForecastPanel(t *testing.T) {
	store := newTestStore()
	svc := New(store, NewDefaultConfig())

	panel, err := svc.TicketVolumeForecast(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, MetricTicketVolume, panel.Metric)
	assert.Equal(t, 28, panel.HorizonDays)
	require.NotNil(t, panel.Table)
	assert.Equal(t, 90+28, panel.Table.Len())
	assert.Positive(t, panel.Summary.Mean)
	assert.Positive(t, panel.Summary.Total)
}

func TestForecastHorizonClamped(t *testing.T) {
	store := newTestStore()
	svc := New(store, NewDefaultConfig())

	testData := map[string]struct {
		weeks    int
		expected int
	}{
		"below minimum": {1, 4 * 7},
		"above maximum": {52, 8 * 7},
		"in range":      {6, 6 * 7},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			panel, err := svc.BacklogForecast(context.Background(), td.weeks)
			require.NoError(t, err)
			assert.Equal(t, td.expected, panel.HorizonDays)
		})
	}
}

func TestForecastFitsOncePerMetric(t *testing.T) {
	store := newTestStore()
	svc := New(store, NewDefaultConfig())

	short, err := svc.TicketVolumeForecast(context.Background(), 4)
	require.NoError(t, err)
	long, err := svc.TicketVolumeForecast(context.Background(), 8)
	require.NoError(t, err)

	assert.Equal(t, 1, store.ticketCalls)

	// the longer horizon reuses the model so shared rows agree exactly
	n := short.Table.Len()
	assert.Equal(t, short.Table.Point, long.Table.Point[:n])
	assert.Equal(t, short.Table.Lower, long.Table.Lower[:n])
	assert.Equal(t, short.Table.Upper, long.Table.Upper[:n])
}

func TestForecastPanelIsolation(t *testing.T) {
	store := newTestStore()
	store.backlogErr = errors.New("view missing")
	svc := New(store, NewDefaultConfig())

	_, err := svc.BacklogForecast(context.Background(), 4)
	require.Error(t, err)

	var perr *PanelError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, string(MetricBacklog), perr.Panel)

	// the other panel is unaffected
	panel, err := svc.TicketVolumeForecast(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, panel.Table)
}

func TestForecastUnknownMetric(t *testing.T) {
	svc := New(newTestStore(), NewDefaultConfig())

	_, err := svc.Forecast(context.Background(), Metric("mttr"), 4)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestForecastInsufficientHistory(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &stubStore{
		ticketRows: dailyRows(start, timeseries.Constant(5, 10)),
	}
	svc := New(store, NewDefaultConfig())

	_, err := svc.TicketVolumeForecast(context.Background(), 4)
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)
}

func TestForecastNoData(t *testing.T) {
	svc := New(&stubStore{}, NewDefaultConfig())

	_, err := svc.TicketVolumeForecast(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBacklogWindowTrim(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &stubStore{
		backlogRows: dailyRows(start, timeseries.AddNoise(timeseries.Constant(500, 60), 4, 5)),
	}

	cfg := NewDefaultConfig()
	cfg.BacklogWindowDays = 120
	svc := New(store, cfg)

	panel, err := svc.BacklogForecast(context.Background(), 4)
	require.NoError(t, err)

	// only the trailing window feeds the fit
	assert.Equal(t, 120+28, panel.Table.Len())
}

func TestPulse(t *testing.T) {
	store := newTestStore()
	store.pulseRows = []warehouse.PulseRow{
		{Year: 2024, MonthNumber: 3, MonthName: "March", TicketVolume: 910, AvgCSAT: 4.4},
		{Year: 2024, MonthNumber: 2, MonthName: "February", TicketVolume: 840, AvgCSAT: 4.2},
	}
	svc := New(store, NewDefaultConfig())

	pulse, err := svc.Pulse(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "March", pulse.Current.MonthName)
	assert.Equal(t, "February", pulse.Previous.MonthName)
	assert.Equal(t, 70.0, pulse.VolumeDelta)
	assert.InDelta(t, 0.2, pulse.CSATDelta, 1e-9)
}

func TestPulseSingleMonth(t *testing.T) {
	store := newTestStore()
	store.pulseRows = []warehouse.PulseRow{
		{Year: 2024, MonthNumber: 3, MonthName: "March", TicketVolume: 910},
	}
	svc := New(store, NewDefaultConfig())

	pulse, err := svc.Pulse(context.Background())
	require.NoError(t, err)

	assert.Equal(t, pulse.Current, pulse.Previous)
	assert.Zero(t, pulse.VolumeDelta)
}

func TestPulseEmpty(t *testing.T) {
	svc := New(newTestStore(), NewDefaultConfig())

	_, err := svc.Pulse(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTechnicians(t *testing.T) {
	store := newTestStore()
	store.techRows = []warehouse.TechnicianRow{
		{FullName: "Sam Okafor", TicketsResolved: 410, ReopenRate: 0.09},
		{FullName: "Dana Reyes", TicketsResolved: 320, ReopenRate: 0.04},
		{FullName: "Lee Tran", TicketsResolved: 250, ReopenRate: 0.12},
	}
	svc := New(store, NewDefaultConfig())

	matrix, err := svc.Technicians(context.Background())
	require.NoError(t, err)

	require.Len(t, matrix.Technicians, 3)
	require.NotNil(t, matrix.Bottleneck)
	assert.Equal(t, "Lee Tran", matrix.Bottleneck.FullName)
}

func TestParseMetric(t *testing.T) {
	testData := map[string]struct {
		in       string
		expected Metric
		err      error
	}{
		"ticket volume": {"ticket_volume", MetricTicketVolume, nil},
		"backlog":       {"backlog", MetricBacklog, nil},
		"unknown":       {"mttr", "", ErrUnknownMetric},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			got, err := ParseMetric(td.in)
			assert.ErrorIs(t, err, td.err)
			assert.Equal(t, td.expected, got)
		})
	}
}
