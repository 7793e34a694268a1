// Package warehouse is the read-only boundary to the service desk star
// schema. All dashboard data flows through the typed queries here, against
// the fact tables and reporting views the warehouse build publishes.
package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const dateLayout = "2006-01-02"

// QueryError wraps a failed warehouse query with the statement that
// produced it.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("warehouse query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Warehouse owns a read-only SQLite connection pool against the analytics
// database. It is safe for concurrent use.
type Warehouse struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
}

// Open opens the warehouse database read-only. Every connection also sets
// query_only so a stray statement cannot mutate the warehouse even through
// a driver bug.
func Open(path string, logger *slog.Logger) (*Warehouse, error) {
	if path == "" {
		return nil, fmt.Errorf("warehouse: path is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := sqlitex.NewPool("file:"+path+"?mode=ro", sqlitex.PoolOptions{
		Flags:    sqlite.OpenReadOnly | sqlite.OpenURI,
		PoolSize: 4,
		PrepareConn: func(conn *sqlite.Conn) error {
			for _, pragma := range []string{
				"PRAGMA query_only = ON;",
				"PRAGMA busy_timeout = 5000;",
			} {
				if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
					return fmt.Errorf("applying %q: %w", pragma, err)
				}
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("warehouse: opening %s: %w", path, err)
	}

	logger.Info("warehouse opened", "path", path)
	return &Warehouse{pool: pool, logger: logger}, nil
}

// Close releases all pool connections.
func (w *Warehouse) Close() error {
	return w.pool.Close()
}

// DailyRow is one calendar day of an aggregated daily metric.
type DailyRow struct {
	Date  time.Time
	Value float64
}

const dailyTicketCountsQuery = `
SELECT date(created_at) AS day, COUNT(*) AS total
FROM fact_tickets
GROUP BY day
ORDER BY day`

// DailyTicketCounts returns the number of tickets opened per calendar day
// over the full history, in ascending date order. Days with no tickets
// produce no row.
func (w *Warehouse) DailyTicketCounts(ctx context.Context) ([]DailyRow, error) {
	return w.dailyRows(ctx, dailyTicketCountsQuery, nil)
}

const backlogHistoryQuery = `
SELECT full_date, total_backlog
FROM vw_kpi_backlog_history
ORDER BY full_date`

const backlogHistoryWindowQuery = `
SELECT full_date, total_backlog
FROM vw_kpi_backlog_history
WHERE full_date >= date('now', ?)
ORDER BY full_date`

// BacklogHistory returns the end-of-day open ticket backlog per calendar
// day, in ascending date order. A positive sinceDays limits the result to
// the trailing window; zero returns the full history.
func (w *Warehouse) BacklogHistory(ctx context.Context, sinceDays int) ([]DailyRow, error) {
	if sinceDays <= 0 {
		return w.dailyRows(ctx, backlogHistoryQuery, nil)
	}
	return w.dailyRows(ctx, backlogHistoryWindowQuery, []any{fmt.Sprintf("-%d days", sinceDays)})
}

func (w *Warehouse) dailyRows(ctx context.Context, query string, args []any) ([]DailyRow, error) {
	conn, err := w.pool.Take(ctx)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	defer w.pool.Put(conn)

	var rows []DailyRow
	var scanErr error
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			day, err := time.Parse(dateLayout, stmt.ColumnText(0))
			if err != nil {
				scanErr = fmt.Errorf("parsing date %q: %w", stmt.ColumnText(0), err)
				return scanErr
			}
			rows = append(rows, DailyRow{Date: day, Value: stmt.ColumnFloat(1)})
			return nil
		},
	})
	if err != nil {
		if scanErr != nil {
			err = scanErr
		}
		return nil, &QueryError{Query: query, Err: err}
	}

	w.logger.Debug("warehouse daily rows", "rows", len(rows))
	return rows, nil
}

// PulseRow is one month of executive KPI aggregates.
type PulseRow struct {
	Year          int     `json:"year"`
	MonthNumber   int     `json:"month_number"`
	MonthName     string  `json:"month_name"`
	TicketVolume  float64 `json:"total_ticket_volume"`
	MTTRHours     float64 `json:"mttr_hours"`
	SLABreachRate float64 `json:"sla_breach_rate"`
	AvgCSAT       float64 `json:"avg_csat"`
	FCRRate       float64 `json:"fcr_rate"`
}

const executivePulseQuery = `
SELECT year, month_number, month_name, total_ticket_volume,
       mttr_hours, sla_breach_rate, avg_csat, fcr_rate
FROM vw_kpi_executive_pulse
ORDER BY year DESC, month_number DESC`

// ExecutivePulse returns monthly KPI aggregates, most recent month first.
func (w *Warehouse) ExecutivePulse(ctx context.Context) ([]PulseRow, error) {
	conn, err := w.pool.Take(ctx)
	if err != nil {
		return nil, &QueryError{Query: executivePulseQuery, Err: err}
	}
	defer w.pool.Put(conn)

	var rows []PulseRow
	err = sqlitex.Execute(conn, executivePulseQuery, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, PulseRow{
				Year:          int(stmt.ColumnInt64(0)),
				MonthNumber:   int(stmt.ColumnInt64(1)),
				MonthName:     stmt.ColumnText(2),
				TicketVolume:  stmt.ColumnFloat(3),
				MTTRHours:     stmt.ColumnFloat(4),
				SLABreachRate: stmt.ColumnFloat(5),
				AvgCSAT:       stmt.ColumnFloat(6),
				FCRRate:       stmt.ColumnFloat(7),
			})
			return nil
		},
	})
	if err != nil {
		return nil, &QueryError{Query: executivePulseQuery, Err: err}
	}

	w.logger.Debug("warehouse executive pulse", "rows", len(rows))
	return rows, nil
}

// TechnicianRow is one technician's lifetime performance aggregates.
type TechnicianRow struct {
	FullName          string  `json:"full_name"`
	RoleLevel         string  `json:"role_level"`
	TicketsResolved   int     `json:"tickets_resolved"`
	AvgCSAT           float64 `json:"avg_csat"`
	AvgHandleTimeMins float64 `json:"avg_handle_time_mins"`
	ReopenRate        float64 `json:"reopen_rate"`
}

const technicianPerformanceQuery = `
SELECT full_name, role_level, tickets_resolved,
       avg_csat, avg_handle_time_mins, reopen_rate
FROM vw_kpi_tech_performance
ORDER BY tickets_resolved DESC`

// TechnicianPerformance returns per-technician aggregates ordered by
// resolution volume.
func (w *Warehouse) TechnicianPerformance(ctx context.Context) ([]TechnicianRow, error) {
	conn, err := w.pool.Take(ctx)
	if err != nil {
		return nil, &QueryError{Query: technicianPerformanceQuery, Err: err}
	}
	defer w.pool.Put(conn)

	var rows []TechnicianRow
	err = sqlitex.Execute(conn, technicianPerformanceQuery, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, TechnicianRow{
				FullName:          stmt.ColumnText(0),
				RoleLevel:         stmt.ColumnText(1),
				TicketsResolved:   int(stmt.ColumnInt64(2)),
				AvgCSAT:           stmt.ColumnFloat(3),
				AvgHandleTimeMins: stmt.ColumnFloat(4),
				ReopenRate:        stmt.ColumnFloat(5),
			})
			return nil
		},
	})
	if err != nil {
		return nil, &QueryError{Query: technicianPerformanceQuery, Err: err}
	}

	w.logger.Debug("warehouse technician performance", "rows", len(rows))
	return rows, nil
}
