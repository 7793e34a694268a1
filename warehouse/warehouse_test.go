package warehouse

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite/sqlitex"
)

func seedDatabase(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "warehouse.db")
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{PoolSize: 1})
	require.NoError(t, err)
	defer pool.Close()

	conn, err := pool.Take(context.Background())
	require.NoError(t, err)
	defer pool.Put(conn)

	require.NoError(t, sqlitex.ExecuteScript(conn, `
CREATE TABLE fact_tickets (
	ticket_id INTEGER PRIMARY KEY,
	created_at TEXT NOT NULL
);
INSERT INTO fact_tickets (created_at) VALUES
	('2024-03-01 09:15:00'),
	('2024-03-01 14:30:00'),
	('2024-03-02 08:00:00'),
	('2024-03-04 11:45:00');

CREATE TABLE vw_kpi_backlog_history (
	full_date TEXT NOT NULL,
	total_backlog INTEGER NOT NULL
);
INSERT INTO vw_kpi_backlog_history VALUES
	('2024-03-01', 12),
	('2024-03-02', 14),
	('2024-03-03', 11);

CREATE TABLE vw_kpi_executive_pulse (
	year INTEGER, month_number INTEGER, month_name TEXT,
	total_ticket_volume INTEGER, mttr_hours REAL,
	sla_breach_rate REAL, avg_csat REAL, fcr_rate REAL
);
INSERT INTO vw_kpi_executive_pulse VALUES
	(2024, 2, 'February', 840, 18.5, 0.07, 4.2, 0.61),
	(2024, 3, 'March', 910, 16.2, 0.05, 4.4, 0.66);

CREATE TABLE vw_kpi_tech_performance (
	full_name TEXT, role_level TEXT, tickets_resolved INTEGER,
	avg_csat REAL, avg_handle_time_mins REAL, reopen_rate REAL
);
INSERT INTO vw_kpi_tech_performance VALUES
	('Dana Reyes', 'L2', 320, 4.5, 34.0, 0.04),
	('Sam Okafor', 'L1', 410, 4.1, 28.5, 0.09);
`, nil))

	return path
}

func TestOpenMissingPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}

func TestDailyTicketCounts(t *testing.T) {
	w, err := Open(seedDatabase(t), nil)
	require.NoError(t, err)
	defer w.Close()

	rows, err := w.DailyTicketCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, 2.0, rows[0].Value)
	assert.Equal(t, 1.0, rows[1].Value)

	// 2024-03-03 had no tickets so there is no row for it
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), rows[2].Date)
}

func TestBacklogHistory(t *testing.T) {
	w, err := Open(seedDatabase(t), nil)
	require.NoError(t, err)
	defer w.Close()

	rows, err := w.BacklogHistory(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 12.0, rows[0].Value)
	assert.Equal(t, 11.0, rows[2].Value)
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].Date.After(rows[i-1].Date))
	}
}

func TestBacklogHistoryWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backlog.db")
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{PoolSize: 1})
	require.NoError(t, err)

	conn, err := pool.Take(context.Background())
	require.NoError(t, err)
	require.NoError(t, sqlitex.ExecuteScript(conn, `
CREATE TABLE vw_kpi_backlog_history (
	full_date TEXT NOT NULL,
	total_backlog INTEGER NOT NULL
);
INSERT INTO vw_kpi_backlog_history VALUES
	(date('now', '-400 days'), 5),
	(date('now', '-10 days'), 17),
	(date('now', '-1 days'), 19);
`, nil))
	pool.Put(conn)
	require.NoError(t, pool.Close())

	w, err := Open(path, nil)
	require.NoError(t, err)
	defer w.Close()

	rows, err := w.BacklogHistory(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 17.0, rows[0].Value)

	all, err := w.BacklogHistory(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestExecutivePulse(t *testing.T) {
	w, err := Open(seedDatabase(t), nil)
	require.NoError(t, err)
	defer w.Close()

	rows, err := w.ExecutivePulse(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// most recent month first
	assert.Equal(t, "March", rows[0].MonthName)
	assert.Equal(t, 910.0, rows[0].TicketVolume)
	assert.Equal(t, 0.07, rows[1].SLABreachRate)
}

func TestTechnicianPerformance(t *testing.T) {
	w, err := Open(seedDatabase(t), nil)
	require.NoError(t, err)
	defer w.Close()

	rows, err := w.TechnicianPerformance(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// ordered by resolution volume
	assert.Equal(t, "Sam Okafor", rows[0].FullName)
	assert.Equal(t, "Dana Reyes", rows[1].FullName)
	assert.Equal(t, 0.04, rows[1].ReopenRate)
}

func TestQueryErrorMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{PoolSize: 1})
	require.NoError(t, err)
	require.NoError(t, pool.Close())

	w, err := Open(path, nil)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.DailyTicketCounts(context.Background())
	require.Error(t, err)

	var qerr *QueryError
	assert.ErrorAs(t, err, &qerr)
}
