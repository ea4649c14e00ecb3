package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"facultysite/internal/errors"
)

// Source backends
const (
	SourceSheets = "sheets"
	SourceExcel  = "excel"
)

// Store backends
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Refresh RefreshConfig
	Source  SourceConfig
	Store   StoreConfig
	Log     LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// RefreshConfig holds refresh scheduling and protection settings
type RefreshConfig struct {
	Secret     string
	Interval   time.Duration
	Timeout    time.Duration
	MaxRetries int
	OnStartup  bool
}

// SourceConfig selects and configures the tabular source
type SourceConfig struct {
	Backend         string
	SpreadsheetID   string
	CredentialsFile string
	APIKey          string
	ExcelFile       string
	TablesFile      string
}

// StoreConfig selects and configures the document store
type StoreConfig struct {
	Backend     string
	CacheFile   string
	DatabaseURL string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Refresh: *loadRefreshConfig(),
		Source:  *loadSourceConfig(),
		Store:   *loadStoreConfig(),
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		CORSOrigins:     getEnvListOrDefault("CORS_ORIGINS", []string{"*"}),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadRefreshConfig() *RefreshConfig {
	return &RefreshConfig{
		Secret:     os.Getenv("REFRESH_SECRET"),
		Interval:   getEnvDurationOrDefault("REFRESH_INTERVAL", time.Hour),
		Timeout:    getEnvDurationOrDefault("REFRESH_TIMEOUT", 2*time.Minute),
		MaxRetries: getEnvIntOrDefault("REFRESH_MAX_RETRIES", 3),
		OnStartup:  getEnvBoolOrDefault("REFRESH_ON_STARTUP", true),
	}
}

func loadSourceConfig() *SourceConfig {
	return &SourceConfig{
		Backend:         strings.ToLower(getEnvOrDefault("SOURCE_BACKEND", SourceSheets)),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		APIKey:          os.Getenv("GOOGLE_API_KEY"),
		ExcelFile:       os.Getenv("EXCEL_FILE"),
		TablesFile:      os.Getenv("TABLES_FILE"),
	}
}

func loadStoreConfig() *StoreConfig {
	return &StoreConfig{
		Backend:     strings.ToLower(getEnvOrDefault("STORE_BACKEND", StoreFile)),
		CacheFile:   getEnvOrDefault("CACHE_FILE", "data/faculty.json"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

// Validate checks backend-specific required settings
func Validate(config *Config) error {
	switch config.Source.Backend {
	case SourceSheets:
		if config.Source.SpreadsheetID == "" {
			return errors.ConfigInvalid("SPREADSHEET_ID is required for the sheets source")
		}
		if config.Source.CredentialsFile == "" && config.Source.APIKey == "" {
			return errors.ConfigInvalid("GOOGLE_CREDENTIALS_FILE or GOOGLE_API_KEY is required for the sheets source")
		}
	case SourceExcel:
		if config.Source.ExcelFile == "" {
			return errors.ConfigInvalid("EXCEL_FILE is required for the excel source")
		}
	default:
		return errors.ConfigInvalid("unknown SOURCE_BACKEND " + strconv.Quote(config.Source.Backend))
	}

	switch config.Store.Backend {
	case StoreFile:
		if config.Store.CacheFile == "" {
			return errors.ConfigInvalid("CACHE_FILE is required for the file store")
		}
	case StorePostgres:
		if config.Store.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres store")
		}
	default:
		return errors.ConfigInvalid("unknown STORE_BACKEND " + strconv.Quote(config.Store.Backend))
	}

	if config.Refresh.Interval < 0 {
		return errors.ConfigInvalid("REFRESH_INTERVAL must not be negative")
	}
	if config.Refresh.MaxRetries < 0 {
		return errors.ConfigInvalid("REFRESH_MAX_RETRIES must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
