package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/rsambing/smart-tour/internal/model"
)

const (
	pingAttempts = 5
	pingBackoff  = 2 * time.Second
)

// PostgresSource reads visitor and eco-site tables from PostgreSQL.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens a connection and waits for the server to answer.
func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(pingBackoff):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	return &PostgresSource{db: db}, nil
}

// Close closes the database connection.
func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}

// Visitors reads every row of the named visitor table.
func (ps *PostgresSource) Visitors(ctx context.Context, table string) ([]model.VisitorRecord, error) {
	rows, err := ps.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT date, year, month, province, visitors_total, foreign_share, avg_stay_nights, season
		FROM %s ORDER BY date, province`, pq.QuoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("postgres: query %s: %w", table, err)
	}
	defer rows.Close()

	var records []model.VisitorRecord
	for rows.Next() {
		var r model.VisitorRecord
		var season string
		if err := rows.Scan(&r.Date, &r.Year, &r.Month, &r.Province, &r.VisitorsTotal, &r.ForeignShare, &r.AvgStayNights, &season); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", table, err)
		}
		r.Season = ParseSeason(season)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if problems := ValidateVisitors(records, nil); len(problems) > 0 {
		return nil, &ValidationError{Dataset: "visitor", Problems: problems}
	}
	return records, nil
}

// Sites reads every row of the named eco-site table.
func (ps *PostgresSource) Sites(ctx context.Context, table string) ([]model.EcoSiteRecord, error) {
	rows, err := ps.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT site_name, province, lat, lon, fragility_index, capacity_daily, fee_aoa
		FROM %s ORDER BY site_name`, pq.QuoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("postgres: query %s: %w", table, err)
	}
	defer rows.Close()

	var records []model.EcoSiteRecord
	for rows.Next() {
		var r model.EcoSiteRecord
		if err := rows.Scan(&r.SiteName, &r.Province, &r.Lat, &r.Lon, &r.FragilityIndex, &r.CapacityDaily, &r.FeeAOA); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", table, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if problems := ValidateSites(records, nil); len(problems) > 0 {
		return nil, &ValidationError{Dataset: "eco-site", Problems: problems}
	}
	return records, nil
}
