package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/rsambing/smart-tour/internal/aggregator"
)

// envPrefix namespaces the environment overrides.
const envPrefix = "SMARTTOUR_"

// Config holds all user-facing configuration for smart-tour.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Server ServerConfig `toml:"server"`
	Policy PolicyConfig `toml:"policy"`
	Ingest IngestConfig `toml:"ingest"`
	Report ReportConfig `toml:"report"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// RateLimit is the sustained requests per second allowed per client.
	RateLimit float64  `toml:"rate_limit"`
	CacheTTL  Duration `toml:"cache_ttl"`
}

type PolicyConfig struct {
	AnnualizationFactor int64   `toml:"annualization_factor"`
	OccupancyFactor     float64 `toml:"occupancy_factor"`
}

type IngestConfig struct {
	VisitorsFile  string `toml:"visitors_file"`
	SitesFile     string `toml:"sites_file"`
	PostgresDSN   string `toml:"postgres_dsn"`
	VisitorsTable string `toml:"visitors_table"`
	SitesTable    string `toml:"sites_table"`
}

type ReportConfig struct {
	OutputDir string `toml:"output_dir"`
}

// Duration lets TOML files write durations as "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data: DataConfig{Dir: "data"},
		Server: ServerConfig{
			Host:      "localhost",
			Port:      8080,
			RateLimit: 10,
			CacheTTL:  Duration{5 * time.Minute},
		},
		Policy: PolicyConfig{
			AnnualizationFactor: aggregator.DefaultAnnualizationFactor,
			OccupancyFactor:     aggregator.DefaultOccupancyFactor,
		},
		Ingest: IngestConfig{
			VisitorsTable: "visitors",
			SitesTable:    "eco_sites",
		},
		Report: ReportConfig{OutputDir: "reports"},
	}
}

// Load reads a TOML config file, then a .env file, then SMARTTOUR_*
// environment variables, each layer overriding the previous one. Missing
// files are not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Data.Dir, "DATA_DIR")
	setString(&c.Server.Host, "HOST")
	setString(&c.Ingest.VisitorsFile, "VISITORS_FILE")
	setString(&c.Ingest.SitesFile, "SITES_FILE")
	setString(&c.Ingest.PostgresDSN, "POSTGRES_DSN")
	setString(&c.Ingest.VisitorsTable, "VISITORS_TABLE")
	setString(&c.Ingest.SitesTable, "SITES_TABLE")
	setString(&c.Report.OutputDir, "REPORT_DIR")

	if v, ok := lookup("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", envPrefix, err)
		}
		c.Server.Port = n
	}
	if v, ok := lookup("RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", envPrefix, err)
		}
		c.Server.RateLimit = f
	}
	if v, ok := lookup("CACHE_TTL"); ok {
		if err := c.Server.CacheTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", envPrefix, err)
		}
	}
	if v, ok := lookup("ANNUALIZATION_FACTOR"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sANNUALIZATION_FACTOR: %w", envPrefix, err)
		}
		c.Policy.AnnualizationFactor = n
	}
	if v, ok := lookup("OCCUPANCY_FACTOR"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sOCCUPANCY_FACTOR: %w", envPrefix, err)
		}
		c.Policy.OccupancyFactor = f
	}
	return nil
}

func lookup(key string) (string, bool) {
	v := os.Getenv(envPrefix + key)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

// Validate rejects settings the analysis cannot work with.
func (c *Config) Validate() error {
	if c.Policy.AnnualizationFactor <= 0 {
		return fmt.Errorf("policy.annualization_factor must be positive, got %d", c.Policy.AnnualizationFactor)
	}
	if c.Policy.OccupancyFactor <= 0 || c.Policy.OccupancyFactor > 1 {
		return fmt.Errorf("policy.occupancy_factor must be in (0, 1], got %v", c.Policy.OccupancyFactor)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %v", c.Server.RateLimit)
	}
	return nil
}

// AnalysisPolicy returns the KPI policy configured for this run.
func (c *Config) AnalysisPolicy() aggregator.Policy {
	return aggregator.Policy{
		AnnualizationFactor: c.Policy.AnnualizationFactor,
		OccupancyFactor:     c.Policy.OccupancyFactor,
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
