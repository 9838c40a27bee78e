package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rsambing/smart-tour/internal/model"
)

// Dataset names used as meta keys.
const (
	DatasetVisitors = "visitors"
	DatasetSites    = "sites"
)

// Store stages the most recently ingested datasets in DuckDB so that
// analyze, export and serve can run without re-reading the sources.
type Store struct {
	DB      *sql.DB
	DataDir string
}

// Staged describes one staged dataset.
type Staged struct {
	Dataset  string `json:"dataset"`
	Source   string `json:"source"`
	LoadedAt string `json:"loaded_at"`
	Records  int    `json:"records"`
}

// New opens (or creates) a DuckDB database in the given data directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "smart-tour.duckdb")
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db, DataDir: dataDir}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visitors (
			seq INTEGER PRIMARY KEY,
			date DATE NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			province TEXT NOT NULL,
			visitors_total BIGINT NOT NULL,
			foreign_share DOUBLE NOT NULL,
			avg_stay_nights DOUBLE NOT NULL,
			season TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS eco_sites (
			seq INTEGER PRIMARY KEY,
			site_name TEXT NOT NULL,
			province TEXT NOT NULL,
			lat DOUBLE NOT NULL,
			lon DOUBLE NOT NULL,
			fragility_index INTEGER NOT NULL,
			capacity_daily BIGINT NOT NULL,
			fee_aoa DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *Store) writeMeta(tx *sql.Tx, dataset, source string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", dataset+"_loaded_at", now); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", dataset+"_source", source)
	return err
}

// WriteVisitors replaces the staged visitor dataset.
func (s *Store) WriteVisitors(records []model.VisitorRecord, source string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM visitors"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO visitors (seq, date, year, month, province, visitors_total, foreign_share, avg_stay_nights, season)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(i, r.Date, r.Year, r.Month, r.Province, r.VisitorsTotal, r.ForeignShare, r.AvgStayNights, string(r.Season)); err != nil {
			return fmt.Errorf("inserting visitor row %d: %w", i+1, err)
		}
	}

	if err := s.writeMeta(tx, DatasetVisitors, source); err != nil {
		return err
	}
	return tx.Commit()
}

// ReadVisitors loads the staged visitor dataset in ingestion order.
func (s *Store) ReadVisitors() ([]model.VisitorRecord, error) {
	rows, err := s.DB.Query("SELECT date, year, month, province, visitors_total, foreign_share, avg_stay_nights, season FROM visitors ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.VisitorRecord
	for rows.Next() {
		var r model.VisitorRecord
		var season string
		if err := rows.Scan(&r.Date, &r.Year, &r.Month, &r.Province, &r.VisitorsTotal, &r.ForeignShare, &r.AvgStayNights, &season); err != nil {
			return nil, err
		}
		r.Season = model.Season(season)
		records = append(records, r)
	}
	return records, rows.Err()
}

// WriteSites replaces the staged eco-site dataset.
func (s *Store) WriteSites(records []model.EcoSiteRecord, source string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM eco_sites"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO eco_sites (seq, site_name, province, lat, lon, fragility_index, capacity_daily, fee_aoa)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(i, r.SiteName, r.Province, r.Lat, r.Lon, r.FragilityIndex, r.CapacityDaily, r.FeeAOA); err != nil {
			return fmt.Errorf("inserting site %q: %w", r.SiteName, err)
		}
	}

	if err := s.writeMeta(tx, DatasetSites, source); err != nil {
		return err
	}
	return tx.Commit()
}

// ReadSites loads the staged eco-site dataset in ingestion order.
func (s *Store) ReadSites() ([]model.EcoSiteRecord, error) {
	rows, err := s.DB.Query("SELECT site_name, province, lat, lon, fragility_index, capacity_daily, fee_aoa FROM eco_sites ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.EcoSiteRecord
	for rows.Next() {
		var r model.EcoSiteRecord
		if err := rows.Scan(&r.SiteName, &r.Province, &r.Lat, &r.Lon, &r.FragilityIndex, &r.CapacityDaily, &r.FeeAOA); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// VisitorCount returns the number of staged visitor records.
func (s *Store) VisitorCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM visitors").Scan(&n)
	return n
}

// SiteCount returns the number of staged eco-site records.
func (s *Store) SiteCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM eco_sites").Scan(&n)
	return n
}

func (s *Store) countByProvince(query string) map[string]int {
	m := make(map[string]int)
	rows, err := s.DB.Query(query)
	if err != nil {
		return m
	}
	defer rows.Close()
	for rows.Next() {
		var province string
		var cnt int
		rows.Scan(&province, &cnt)
		m[province] = cnt
	}
	return m
}

// VisitorCountByProvince returns staged visitor record counts per province.
func (s *Store) VisitorCountByProvince() map[string]int {
	return s.countByProvince("SELECT province, COUNT(*) FROM visitors GROUP BY province ORDER BY province")
}

// SiteCountByProvince returns staged eco-site counts per province.
func (s *Store) SiteCountByProvince() map[string]int {
	return s.countByProvince("SELECT province, COUNT(*) FROM eco_sites GROUP BY province ORDER BY province")
}

func (s *Store) meta(key string) string {
	var v sql.NullString
	s.DB.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&v)
	return v.String
}

// Status describes both staged datasets. LoadedAt is empty for a dataset
// that was never ingested.
func (s *Store) Status() []Staged {
	return []Staged{
		{
			Dataset:  DatasetVisitors,
			Source:   s.meta(DatasetVisitors + "_source"),
			LoadedAt: s.meta(DatasetVisitors + "_loaded_at"),
			Records:  s.VisitorCount(),
		},
		{
			Dataset:  DatasetSites,
			Source:   s.meta(DatasetSites + "_source"),
			LoadedAt: s.meta(DatasetSites + "_loaded_at"),
			Records:  s.SiteCount(),
		},
	}
}
