// Package dashboard orchestrates the service desk analytics panels. It
// pulls warehouse rows, fits forecast models per metric and reduces the
// results to panel payloads, caching each stage with a TTL so page loads
// stay cheap.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/DoctorN8/service-desk-analytics/forecast"
	"github.com/DoctorN8/service-desk-analytics/timeseries"
	"github.com/DoctorN8/service-desk-analytics/warehouse"
)

// Metric names a forecastable dashboard series.
type Metric string

const (
	MetricTicketVolume Metric = "ticket_volume"
	MetricBacklog      Metric = "backlog"
)

// ParseMetric maps a request string onto a known metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricTicketVolume:
		return MetricTicketVolume, nil
	case MetricBacklog:
		return MetricBacklog, nil
	}
	return "", ErrUnknownMetric
}

// Store is the warehouse surface the dashboard reads from.
type Store interface {
	DailyTicketCounts(ctx context.Context) ([]warehouse.DailyRow, error)
	BacklogHistory(ctx context.Context, sinceDays int) ([]warehouse.DailyRow, error)
	ExecutivePulse(ctx context.Context) ([]warehouse.PulseRow, error)
	TechnicianPerformance(ctx context.Context) ([]warehouse.TechnicianRow, error)
}

// Config tunes the dashboard service.
type Config struct {
	// SeriesTTL bounds how stale warehouse series may get, ForecastTTL
	// how long fitted models and tables are reused.
	SeriesTTL   time.Duration
	ForecastTTL time.Duration

	// Forecast horizons are clamped to this range of weeks.
	MinHorizonWeeks int
	MaxHorizonWeeks int

	// BacklogWindowDays caps how much backlog history feeds the fit.
	BacklogWindowDays int

	// Now is overridable for tests.
	Now func() time.Time

	Logger *slog.Logger
}

// NewDefaultConfig returns production defaults.
func NewDefaultConfig() Config {
	return Config{
		SeriesTTL:         time.Hour,
		ForecastTTL:       time.Hour,
		MinHorizonWeeks:   4,
		MaxHorizonWeeks:   8,
		BacklogWindowDays: 365,
	}
}

type tableKey struct {
	metric      Metric
	horizonDays int
}

// Service is the dashboard orchestrator. Safe for concurrent use.
type Service struct {
	store  Store
	cfg    Config
	logger *slog.Logger

	series *ttlCache[Metric, *timeseries.TimeSeries]
	models *ttlCache[Metric, *forecast.Model]
	tables *ttlCache[tableKey, *forecast.Table]
}

func New(store Store, cfg Config) *Service {
	def := NewDefaultConfig()
	if cfg.SeriesTTL <= 0 {
		cfg.SeriesTTL = def.SeriesTTL
	}
	if cfg.ForecastTTL <= 0 {
		cfg.ForecastTTL = def.ForecastTTL
	}
	if cfg.MinHorizonWeeks <= 0 {
		cfg.MinHorizonWeeks = def.MinHorizonWeeks
	}
	if cfg.MaxHorizonWeeks < cfg.MinHorizonWeeks {
		cfg.MaxHorizonWeeks = def.MaxHorizonWeeks
	}
	if cfg.BacklogWindowDays <= 0 {
		cfg.BacklogWindowDays = def.BacklogWindowDays
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return &Service{
		store:  store,
		cfg:    cfg,
		logger: cfg.Logger,
		series: newTTLCache[Metric, *timeseries.TimeSeries](cfg.SeriesTTL, cfg.Now),
		models: newTTLCache[Metric, *forecast.Model](cfg.ForecastTTL, cfg.Now),
		tables: newTTLCache[tableKey, *forecast.Table](cfg.ForecastTTL, cfg.Now),
	}
}

// Panel is the full payload of one forecast panel.
type Panel struct {
	Metric      Metric          `json:"metric"`
	HorizonDays int             `json:"horizon_days"`
	Table       *forecast.Table `json:"table"`
	Summary     Summary         `json:"summary"`
	Scores      forecast.Scores `json:"scores"`

	// TrendPerDay is the observed average daily change of the history,
	// a plain least squares drift next to the model's fitted trend.
	TrendPerDay float64 `json:"trend_per_day"`
}

// TicketVolumeForecast builds the ticket volume panel for the given
// horizon in weeks.
func (s *Service) TicketVolumeForecast(ctx context.Context, weeks int) (*Panel, error) {
	return s.Forecast(ctx, MetricTicketVolume, weeks)
}

// BacklogForecast builds the backlog panel for the given horizon in weeks.
func (s *Service) BacklogForecast(ctx context.Context, weeks int) (*Panel, error) {
	return s.Forecast(ctx, MetricBacklog, weeks)
}

// Forecast builds the panel for a metric. The horizon is clamped to the
// configured week range. Every failure is scoped to the panel via
// PanelError.
func (s *Service) Forecast(ctx context.Context, metric Metric, weeks int) (*Panel, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, &PanelError{Panel: string(metric), Err: err}
	}

	if weeks < s.cfg.MinHorizonWeeks {
		weeks = s.cfg.MinHorizonWeeks
	}
	if weeks > s.cfg.MaxHorizonWeeks {
		weeks = s.cfg.MaxHorizonWeeks
	}
	horizonDays := weeks * 7

	series, err := s.seriesFor(ctx, metric)
	if err != nil {
		return nil, &PanelError{Panel: string(metric), Err: err}
	}

	model, err := s.modelFor(metric, series)
	if err != nil {
		return nil, &PanelError{Panel: string(metric), Err: err}
	}

	table, err := s.tables.getOrCompute(tableKey{metric, horizonDays}, func() (*forecast.Table, error) {
		return model.Forecast(horizonDays)
	})
	if err != nil {
		return nil, &PanelError{Panel: string(metric), Err: err}
	}

	drift, err := trendSlope(series)
	if err != nil {
		return nil, &PanelError{Panel: string(metric), Err: err}
	}

	return &Panel{
		Metric:      metric,
		HorizonDays: horizonDays,
		Table:       table,
		Summary:     Summarize(table.Future(), series.LastValue()),
		Scores:      model.Scores(),
		TrendPerDay: drift,
	}, nil
}

func (s *Service) seriesFor(ctx context.Context, metric Metric) (*timeseries.TimeSeries, error) {
	return s.series.getOrCompute(metric, func() (*timeseries.TimeSeries, error) {
		var rows []warehouse.DailyRow
		var err error
		switch metric {
		case MetricTicketVolume:
			rows, err = s.store.DailyTicketCounts(ctx)
		case MetricBacklog:
			rows, err = s.store.BacklogHistory(ctx, s.cfg.BacklogWindowDays)
			if err == nil && len(rows) > s.cfg.BacklogWindowDays {
				rows = rows[len(rows)-s.cfg.BacklogWindowDays:]
			}
		default:
			return nil, ErrUnknownMetric
		}
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, ErrNoData
		}

		t := make([]time.Time, len(rows))
		y := make([]float64, len(rows))
		for i, row := range rows {
			t[i] = row.Date
			y[i] = row.Value
		}

		series, err := timeseries.New(t, y)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("series refreshed", "metric", metric, "observations", series.Len())
		return series, nil
	})
}

// modelFor fits at most once per metric per ForecastTTL. Horizon changes
// reuse the cached model and only project a longer table, so extending the
// window never changes the rows already shown.
func (s *Service) modelFor(metric Metric, series *timeseries.TimeSeries) (*forecast.Model, error) {
	return s.models.getOrCompute(metric, func() (*forecast.Model, error) {
		var opt *forecast.Options
		switch metric {
		case MetricTicketVolume:
			horizonEnd := series.End().AddDate(0, 0, s.cfg.MaxHorizonWeeks*7)
			opt = ticketVolumeOptions(series.Start(), horizonEnd)
		case MetricBacklog:
			opt = backlogOptions()
		default:
			return nil, ErrUnknownMetric
		}

		model, err := forecast.Fit(series, opt)
		if err != nil {
			return nil, err
		}
		s.logger.Info("model fit",
			"metric", metric,
			"observations", series.Len(),
			"r2", model.Scores().R2,
		)
		return model, nil
	})
}

// Refresh drops all cached series, models and tables.
func (s *Service) Refresh() {
	s.series.purge()
	s.models.purge()
	s.tables.purge()
}
