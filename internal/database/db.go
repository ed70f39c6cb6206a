package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/solardash/pkg/models"
	_ "modernc.org/sqlite"
)

// fixed width so recorded_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one writer: the scheduler's fetch goroutines share this handle
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS metric_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		period TEXT NOT NULL,
		solar_production REAL NOT NULL,
		total_consumption REAL NOT NULL,
		cost_savings REAL NOT NULL,
		co2_offset REAL NOT NULL,
		grid_import REAL DEFAULT 0,
		grid_export REAL DEFAULT 0,
		recorded_at TEXT NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_metrics_period ON metric_snapshots(period);
	CREATE INDEX IF NOT EXISTS idx_metrics_recorded_at ON metric_snapshots(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_metrics_published ON metric_snapshots(published);

	CREATE TABLE IF NOT EXISTS ev_status (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		charging_power REAL NOT NULL,
		time_to_complete REAL NOT NULL,
		cost_estimate REAL NOT NULL,
		percentage REAL NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_ev_recorded_at ON ev_status(recorded_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// RecordMetrics stores a rendered metrics snapshot
func (db *DB) RecordMetrics(period string, m models.MetricsSnapshot, at time.Time) error {
	query := `
	INSERT INTO metric_snapshots (period, solar_production, total_consumption, cost_savings, co2_offset, grid_import, grid_export, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.conn.Exec(query, period, m.SolarProduction, m.TotalConsumption, m.CostSavings, m.CO2Offset,
		m.GridImport, m.GridExport, at.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting metrics snapshot: %w", err)
	}

	return nil
}

// RecordEV stores a rendered EV charging status
func (db *DB) RecordEV(ev models.EVStatus, at time.Time) error {
	query := `
	INSERT INTO ev_status (charging_power, time_to_complete, cost_estimate, percentage, recorded_at)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.conn.Exec(query, ev.ChargingPowerKW, ev.TimeToCompleteHours, ev.CostEstimate, ev.Percentage,
		at.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting ev status: %w", err)
	}

	return nil
}

// ListMetrics retrieves the most recent metrics snapshots, newest first.
// An empty period matches every period; limit <= 0 returns everything.
func (db *DB) ListMetrics(period string, limit int) ([]models.MetricsRecord, error) {
	query := `
	SELECT id, period, solar_production, total_consumption, cost_savings, co2_offset, grid_import, grid_export, recorded_at
	FROM metric_snapshots
	WHERE (? = '' OR period = ?)
	ORDER BY recorded_at DESC, id DESC
	LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	return db.queryMetrics(query, period, period, limit)
}

// ListUnpublishedMetrics retrieves snapshots not yet published, oldest first
func (db *DB) ListUnpublishedMetrics() ([]models.MetricsRecord, error) {
	query := `
	SELECT id, period, solar_production, total_consumption, cost_savings, co2_offset, grid_import, grid_export, recorded_at
	FROM metric_snapshots
	WHERE published = 0
	ORDER BY recorded_at ASC, id ASC
	`

	return db.queryMetrics(query)
}

func (db *DB) queryMetrics(query string, args ...any) ([]models.MetricsRecord, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying metrics snapshots: %w", err)
	}
	defer rows.Close()

	var results []models.MetricsRecord
	for rows.Next() {
		var rec models.MetricsRecord
		var recordedAt string
		m := &rec.Metrics

		if err := rows.Scan(&rec.ID, &rec.Period, &m.SolarProduction, &m.TotalConsumption, &m.CostSavings,
			&m.CO2Offset, &m.GridImport, &m.GridExport, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rec.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// ListEV retrieves the most recent EV statuses, newest first
func (db *DB) ListEV(limit int) ([]models.EVRecord, error) {
	query := `
	SELECT id, charging_power, time_to_complete, cost_estimate, percentage, recorded_at
	FROM ev_status
	ORDER BY recorded_at DESC, id DESC
	LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ev status: %w", err)
	}
	defer rows.Close()

	var results []models.EVRecord
	for rows.Next() {
		var rec models.EVRecord
		var recordedAt string

		if err := rows.Scan(&rec.ID, &rec.EV.ChargingPowerKW, &rec.EV.TimeToCompleteHours, &rec.EV.CostEstimate,
			&rec.EV.Percentage, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rec.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// MarkPublished marks a metrics snapshot as published
func (db *DB) MarkPublished(id int) error {
	query := `UPDATE metric_snapshots SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking snapshot as published: %w", err)
	}
	return nil
}
