// Package storage persists sales and forecasts in SQLite and hosts the
// grouped-average aggregation the generation pipeline delegates to it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salecast/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertSales writes a batch of sale records in one transaction.
func (r *SQLiteRepository) InsertSales(ctx context.Context, sales []core.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sales (entity_id, category, hour, quantity, occurred_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sales {
		if _, err := stmt.ExecContext(ctx, s.EntityID, s.Category, s.Hour, s.Quantity, s.OccurredAt.UTC().Unix()); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CountSales returns the number of stored sale records.
func (r *SQLiteRepository) CountSales(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return count, nil
}

// SalesAveragesSince returns the mean quantity per (entity, category, hour)
// over all sales that occurred at or after since. The grouping runs inside
// SQLite; only the grouped rows cross into process memory, and their
// cardinality is bounded by entities x categories x 24 hours. An empty
// window yields an empty slice, not an error.
func (r *SQLiteRepository) SalesAveragesSince(ctx context.Context, since time.Time) ([]core.SalesAverage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_id, category, hour, AVG(quantity)
		 FROM sales
		 WHERE occurred_at >= ?
		 GROUP BY entity_id, category, hour`,
		since.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("query sales averages: %w", err)
	}
	defer rows.Close()

	var averages []core.SalesAverage
	for rows.Next() {
		var a core.SalesAverage
		if err := rows.Scan(&a.EntityID, &a.Category, &a.Hour, &a.AverageQuantity); err != nil {
			return nil, fmt.Errorf("scan sales average: %w", err)
		}
		averages = append(averages, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales averages: %w", err)
	}

	return averages, nil
}

// ReplaceForecasts deletes every forecast for the given target date and
// inserts the new batch, all inside one transaction. A reader never
// observes the date half-replaced.
func (r *SQLiteRepository) ReplaceForecasts(ctx context.Context, date time.Time, forecasts []core.Forecast) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM forecasts WHERE forecast_date = ?`, date.UTC().Unix()); err != nil {
		return 0, fmt.Errorf("delete forecasts for date: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO forecasts (entity_id, category, hour, predicted_quantity, forecast_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range forecasts {
		if _, err := stmt.ExecContext(ctx,
			f.EntityID, f.Category, f.Hour, f.PredictedQuantity,
			f.Date.UTC().Unix(), f.CreatedAt.UTC().Unix()); err != nil {
			return 0, fmt.Errorf("insert forecast: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return len(forecasts), nil
}

// ForecastFilter narrows forecast reads. Zero-value fields impose no
// constraint; set fields are AND-combined.
type ForecastFilter struct {
	EntityID string
	Category string
	Date     *time.Time
}

func (f ForecastFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.EntityID != "" {
		conds = append(conds, "entity_id = ?")
		args = append(args, f.EntityID)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Date != nil {
		conds = append(conds, "forecast_date = ?")
		args = append(args, f.Date.UTC().Unix())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CountForecasts counts all forecasts matching the filter, independent of
// pagination.
func (r *SQLiteRepository) CountForecasts(ctx context.Context, filter ForecastFilter) (int64, error) {
	where, args := filter.where()

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forecasts`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count forecasts: %w", err)
	}
	return count, nil
}

// ListForecasts returns one page of matching forecasts in a fixed total
// order (date, hour, entity, category) so pagination stays stable across
// requests.
func (r *SQLiteRepository) ListForecasts(ctx context.Context, filter ForecastFilter, skip, limit int) ([]core.Forecast, error) {
	where, args := filter.where()
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_id, category, hour, predicted_quantity, forecast_date, created_at
		 FROM forecasts`+where+`
		 ORDER BY forecast_date ASC, hour ASC, entity_id ASC, category ASC
		 LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("query forecasts: %w", err)
	}
	defer rows.Close()

	var forecasts []core.Forecast
	for rows.Next() {
		var f core.Forecast
		var date, created int64
		if err := rows.Scan(&f.ID, &f.EntityID, &f.Category, &f.Hour, &f.PredictedQuantity, &date, &created); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		f.Date = time.Unix(date, 0).UTC()
		f.CreatedAt = time.Unix(created, 0).UTC()
		forecasts = append(forecasts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forecasts: %w", err)
	}

	return forecasts, nil
}
