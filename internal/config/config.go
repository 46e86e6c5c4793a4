package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server      ServerConfig
	RecordStore RecordStoreConfig
	Redis       RedisConfig
	MongoDB     MongoDBConfig
	Sheets      SheetsConfig
	Reporting   ReportingConfig
	CORS        CORSConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// RecordStoreConfig points at the REST backend owning every farm record.
type RecordStoreConfig struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// RedisConfig holds settings for the summary cache. An empty Addr disables
// caching entirely.
type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// MongoDBConfig holds settings for the summary archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig configures the optional Google Sheets export of scheduled
// summaries. Export is disabled when CredentialsPath is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ExportRange     string
}

// ReportingConfig holds scheduler-related settings. Scopes lists the
// "farmId:lot:semaine" triples recomputed on each cron run.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
	Scopes       []ReportScope
}

// ReportScope identifies one scheduled rollup target.
type ReportScope struct {
	FarmID  string
	Lot     string
	Semaine string
}

// CORSConfig lists the browser origins allowed to call the summary API.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	storeTimeout, err := time.ParseDuration(getenvWithDefault("RECORD_STORE_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECORD_STORE_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getenvWithDefault("SUMMARY_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_CACHE_TTL: %w", err)
	}

	scopes, err := parseScopes(os.Getenv("REPORT_SCOPES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		RecordStore: RecordStoreConfig{
			BaseURL:  os.Getenv("RECORD_STORE_BASE_URL"),
			APIToken: os.Getenv("RECORD_STORE_API_TOKEN"),
			Timeout:  storeTimeout,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			TTL:      cacheTTL,
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "dindetrack"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
			ExportRange:     getenvWithDefault("GOOGLE_SHEET_EXPORT_RANGE", "Rollups!A:J"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Europe/Paris"),
			Scopes:       scopes,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.RecordStore.BaseURL == "" {
		return errors.New("RECORD_STORE_BASE_URL must be provided")
	}

	if c.RecordStore.Timeout <= 0 {
		return errors.New("RECORD_STORE_TIMEOUT must be positive")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_EXPORT_ID must be provided when sheets export is enabled")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func parseScopes(raw string) ([]ReportScope, error) {
	var scopes []ReportScope
	for _, part := range splitAndTrim(raw) {
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid REPORT_SCOPES entry %q, want farmId:lot:semaine", part)
		}
		scopes = append(scopes, ReportScope{
			FarmID:  strings.TrimSpace(fields[0]),
			Lot:     strings.TrimSpace(fields[1]),
			Semaine: strings.TrimSpace(fields[2]),
		})
	}
	return scopes, nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
