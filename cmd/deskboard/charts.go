package main

import (
	"context"
	"fmt"

	"github.com/DoctorN8/service-desk-analytics/dashboard"
	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Each panel is built independently so one failing panel degrades to a
// log line instead of a blank page.

// handleIndex renders the executive pulse page.
func (s *server) handleIndex(c *gin.Context) {
	ctx := c.Request.Context()

	page := components.NewPage()
	page.PageTitle = "Service Desk Analytics"

	if pulse, err := s.svc.Pulse(ctx); err != nil {
		s.logger.Warn("skipping pulse panel", "error", err)
	} else {
		page.AddCharts(pulseChart(pulse))
	}
	s.addBacklogChart(ctx, page)

	s.renderPage(c, page)
}

// handleOps renders the technician performance page.
func (s *server) handleOps(c *gin.Context) {
	page := components.NewPage()
	page.PageTitle = "Service Desk Operations"

	if matrix, err := s.svc.Technicians(c.Request.Context()); err != nil {
		s.logger.Warn("skipping technician panel", "error", err)
	} else {
		page.AddCharts(technicianChart(matrix))
	}

	s.renderPage(c, page)
}

// handleForecasts renders the forecast band charts for every metric.
func (s *server) handleForecasts(c *gin.Context) {
	ctx := c.Request.Context()

	page := components.NewPage()
	page.PageTitle = "Service Desk Forecasts"

	for _, metric := range []dashboard.Metric{dashboard.MetricTicketVolume, dashboard.MetricBacklog} {
		panel, err := s.svc.Forecast(ctx, metric, s.defaultWeeks)
		if err != nil {
			s.logger.Warn("skipping forecast panel", "metric", metric, "error", err)
			continue
		}
		page.AddCharts(forecastChart(panel))
	}

	s.renderPage(c, page)
}

func (s *server) addBacklogChart(ctx context.Context, page *components.Page) {
	panel, err := s.svc.BacklogForecast(ctx, s.defaultWeeks)
	if err != nil {
		s.logger.Warn("skipping backlog panel", "error", err)
		return
	}
	page.AddCharts(forecastChart(panel))
}

func (s *server) renderPage(c *gin.Context, page *components.Page) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		s.logger.Error("rendering dashboard", "error", err)
	}
}

// forecastChart plots the fitted history and future projection with its
// prediction band.
func forecastChart(panel *dashboard.Panel) *charts.Line {
	tbl := panel.Table

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s forecast", panel.Metric),
			Subtitle: fmt.Sprintf("next %d days, peak %.0f", panel.HorizonDays, panel.Summary.Peak),
		}),
	)

	dates := make([]string, tbl.Len())
	pointData := make([]opts.LineData, tbl.Len())
	upperData := make([]opts.LineData, tbl.Len())
	lowerData := make([]opts.LineData, tbl.Len())
	for i := range tbl.T {
		dates[i] = tbl.T[i].Format("2006-01-02")
		pointData[i] = opts.LineData{Value: tbl.Point[i]}
		upperData[i] = opts.LineData{Value: tbl.Upper[i]}
		lowerData[i] = opts.LineData{Value: tbl.Lower[i]}
	}

	line.SetXAxis(dates).
		AddSeries("Forecast", pointData).
		AddSeries("Upper", upperData).
		AddSeries("Lower", lowerData)
	return line
}

// pulseChart compares this month's KPIs against last month's.
func pulseChart(pulse *dashboard.PulseSnapshot) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Executive pulse",
			Subtitle: fmt.Sprintf("%s vs %s", pulse.Current.MonthName, pulse.Previous.MonthName),
		}),
	)

	kpis := []string{"MTTR (hrs)", "SLA breach %", "CSAT", "FCR %"}
	current := []opts.BarData{
		{Value: pulse.Current.MTTRHours},
		{Value: pulse.Current.SLABreachRate * 100},
		{Value: pulse.Current.AvgCSAT},
		{Value: pulse.Current.FCRRate * 100},
	}
	previous := []opts.BarData{
		{Value: pulse.Previous.MTTRHours},
		{Value: pulse.Previous.SLABreachRate * 100},
		{Value: pulse.Previous.AvgCSAT},
		{Value: pulse.Previous.FCRRate * 100},
	}

	bar.SetXAxis(kpis).
		AddSeries(pulse.Current.MonthName, current).
		AddSeries(pulse.Previous.MonthName, previous)
	return bar
}

// technicianChart plots resolution volume per technician.
func technicianChart(matrix *dashboard.TechnicianMatrix) *charts.Bar {
	subtitle := ""
	if matrix.Bottleneck != nil {
		subtitle = fmt.Sprintf("highest reopen rate: %s (%.0f%%)",
			matrix.Bottleneck.FullName, matrix.Bottleneck.ReopenRate*100)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Technician throughput",
			Subtitle: subtitle,
		}),
	)

	names := make([]string, len(matrix.Technicians))
	resolved := make([]opts.BarData, len(matrix.Technicians))
	for i, tech := range matrix.Technicians {
		names[i] = tech.FullName
		resolved[i] = opts.BarData{Value: tech.TicketsResolved}
	}

	bar.SetXAxis(names).AddSeries("Tickets resolved", resolved)
	return bar
}
