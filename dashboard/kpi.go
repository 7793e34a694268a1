package dashboard

import (
	"context"

	"github.com/DoctorN8/service-desk-analytics/warehouse"
)

// PulseSnapshot is the executive pulse panel, the latest month's KPIs with
// month over month deltas.
type PulseSnapshot struct {
	Current  warehouse.PulseRow `json:"current"`
	Previous warehouse.PulseRow `json:"previous"`

	VolumeDelta    float64 `json:"volume_delta"`
	MTTRDelta      float64 `json:"mttr_delta"`
	SLABreachDelta float64 `json:"sla_breach_delta"`
	CSATDelta      float64 `json:"csat_delta"`
	FCRDelta       float64 `json:"fcr_delta"`
}

// Pulse builds the executive pulse snapshot. With a single month of
// history the previous month mirrors the current one so deltas read zero.
func (s *Service) Pulse(ctx context.Context) (*PulseSnapshot, error) {
	rows, err := s.store.ExecutivePulse(ctx)
	if err != nil {
		return nil, &PanelError{Panel: "executive_pulse", Err: err}
	}
	if len(rows) == 0 {
		return nil, &PanelError{Panel: "executive_pulse", Err: ErrNoData}
	}

	current := rows[0]
	previous := current
	if len(rows) > 1 {
		previous = rows[1]
	}

	return &PulseSnapshot{
		Current:        current,
		Previous:       previous,
		VolumeDelta:    current.TicketVolume - previous.TicketVolume,
		MTTRDelta:      current.MTTRHours - previous.MTTRHours,
		SLABreachDelta: current.SLABreachRate - previous.SLABreachRate,
		CSATDelta:      current.AvgCSAT - previous.AvgCSAT,
		FCRDelta:       current.FCRRate - previous.FCRRate,
	}, nil
}

// TechnicianMatrix is the technician performance panel. Bottleneck calls
// out the technician with the worst reopen rate.
type TechnicianMatrix struct {
	Technicians []warehouse.TechnicianRow `json:"technicians"`
	Bottleneck  *warehouse.TechnicianRow  `json:"bottleneck,omitempty"`
}

// Technicians builds the technician performance matrix.
func (s *Service) Technicians(ctx context.Context) (*TechnicianMatrix, error) {
	rows, err := s.store.TechnicianPerformance(ctx)
	if err != nil {
		return nil, &PanelError{Panel: "technicians", Err: err}
	}

	matrix := &TechnicianMatrix{Technicians: rows}
	for i := range rows {
		if matrix.Bottleneck == nil || rows[i].ReopenRate > matrix.Bottleneck.ReopenRate {
			matrix.Bottleneck = &rows[i]
		}
	}
	return matrix, nil
}
