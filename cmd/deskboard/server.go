package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DoctorN8/service-desk-analytics/dashboard"
	"github.com/DoctorN8/service-desk-analytics/timeseries"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

type server struct {
	svc          *dashboard.Service
	logger       *slog.Logger
	defaultWeeks int
	router       *gin.Engine
}

func newServer(svc *dashboard.Service, logger *slog.Logger, defaultWeeks int) *server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &server{
		svc:          svc,
		logger:       logger,
		defaultWeeks: defaultWeeks,
		router:       router,
	}

	router.GET("/", s.handleIndex)
	router.GET("/ops", s.handleOps)
	router.GET("/forecasts", s.handleForecasts)
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api/v1")
	api.GET("/forecast/:metric", s.handleForecast)
	api.GET("/pulse", s.handlePulse)
	api.GET("/technicians", s.handleTechnicians)
	api.POST("/refresh", s.handleRefresh)

	return s
}

func (s *server) handleHealth(c *gin.Context) {
	s.writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// handleForecast serves the forecast panel for one metric. The horizon in
// weeks comes from the weeks query parameter and is clamped server side.
func (s *server) handleForecast(c *gin.Context) {
	metric, err := dashboard.ParseMetric(c.Param("metric"))
	if err != nil {
		s.writeError(c, http.StatusNotFound, err)
		return
	}

	weeks := s.defaultWeeks
	if q := c.Query("weeks"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			s.writeError(c, http.StatusBadRequest, errors.New("weeks must be an integer"))
			return
		}
		weeks = parsed
	}

	panel, err := s.svc.Forecast(c.Request.Context(), metric, weeks)
	if err != nil {
		s.writePanelError(c, err)
		return
	}
	s.writeJSON(c, http.StatusOK, panel)
}

func (s *server) handlePulse(c *gin.Context) {
	pulse, err := s.svc.Pulse(c.Request.Context())
	if err != nil {
		s.writePanelError(c, err)
		return
	}
	s.writeJSON(c, http.StatusOK, pulse)
}

func (s *server) handleTechnicians(c *gin.Context) {
	matrix, err := s.svc.Technicians(c.Request.Context())
	if err != nil {
		s.writePanelError(c, err)
		return
	}
	s.writeJSON(c, http.StatusOK, matrix)
}

func (s *server) handleRefresh(c *gin.Context) {
	s.svc.Refresh()
	s.writeJSON(c, http.StatusAccepted, gin.H{"status": "caches dropped"})
}

func (s *server) writeJSON(c *gin.Context, status int, payload any) {
	buf, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("encoding response", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", buf)
}

// writePanelError maps a panel failure to a scoped error payload so the
// client can show which panel broke.
func (s *server) writePanelError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	panel := ""

	var perr *dashboard.PanelError
	if errors.As(err, &perr) {
		panel = perr.Panel
	}
	switch {
	case errors.Is(err, dashboard.ErrUnknownMetric):
		status = http.StatusNotFound
	case errors.Is(err, dashboard.ErrNoData),
		errors.Is(err, timeseries.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	}

	s.logger.Warn("panel error", "panel", panel, "error", err)
	s.writeJSON(c, status, gin.H{"panel": panel, "error": err.Error()})
}

func (s *server) writeError(c *gin.Context, status int, err error) {
	s.writeJSON(c, status, gin.H{"error": err.Error()})
}
