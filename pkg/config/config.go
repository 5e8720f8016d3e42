// Package config provides configuration management for the food gap pipeline.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Loading from files and environment variables is handled by
// internal/ioconfig.
//
// Precedence (highest to lowest): CLI flags > env vars > foodgap.yaml >
// defaults.
//
// Environment variables use the FOODGAP_ prefix with underscores for
// nesting:
//
//	FOODGAP_DATABASE_HOST=localhost
//	FOODGAP_DATABASE_PORT=5432
//	FOODGAP_API_CORS_ORIGIN=http://localhost:5173
//	FOODGAP_LOG_LEVEL=info
package config

// Config represents the complete foodgap configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// API contains HTTP server settings for the aggregate endpoint.
	API APIConfig `mapstructure:"api" yaml:"api"`

	// Data contains filesystem paths for raw extracts and processed output.
	Data DataConfig `mapstructure:"data" yaml:"data"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full".
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of rows written per bulk-insert chunk.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	// Host is the interface the HTTP server binds to.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the HTTP server port.
	Port int `mapstructure:"port" yaml:"port"`

	// CORSOrigin is the single origin allowed by the CORS policy.
	// All methods and headers are permitted for this origin.
	CORSOrigin string `mapstructure:"cors_origin" yaml:"cors_origin"`
}

// DataConfig contains filesystem paths used by the pipeline.
type DataConfig struct {
	// RawDir is the directory holding raw dataset extracts.
	RawDir string `mapstructure:"raw_dir" yaml:"raw_dir"`

	// ProcessedDir is the directory Parquet snapshots are written to.
	ProcessedDir string `mapstructure:"processed_dir" yaml:"processed_dir"`

	// CatalogPath is the path to the datasets.yaml registry file.
	CatalogPath string `mapstructure:"catalog_path" yaml:"catalog_path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format selects the log encoding: json or text.
	Format string `mapstructure:"format" yaml:"format"`

	// Destination selects the log output: stdout or stderr.
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New returns a Config populated with defaults. The default config is
// always valid.
func New() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "foodgap",
			SSLMode:   "disable",
			BatchSize: 1000,
		},
		API: APIConfig{
			Host:       "0.0.0.0",
			Port:       8000,
			CORSOrigin: "http://localhost:5173",
		},
		Data: DataConfig{
			RawDir:       "data/raw",
			ProcessedDir: "data/processed",
			CatalogPath:  "datasets.yaml",
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			Destination: "stderr",
		},
	}
}
