// Package ioconfig provides I/O operations for loading configuration from
// files and environment variables. This is an impure package that handles
// file system access.
package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nycfoodgap/foodgap/pkg/config"
	"github.com/spf13/viper"
)

// LoadResult contains the loaded configuration and metadata about its
// source.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // path to the config file used, empty for defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration from a YAML file and returns a validated Config
// with source info. If configPath is empty, default locations are probed:
//
//   - ./foodgap.yaml
//   - ~/.config/foodgap/foodgap.yaml
//
// Returns an error if the file is malformed or validation fails.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Precedence: env vars > config file > defaults.
	v.SetEnvPrefix("FOODGAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults must be registered before reading so AutomaticEnv knows
	// which keys to check.
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		for _, p := range defaultPaths() {
			if _, err := os.Stat(p); err == nil {
				v.SetConfigFile(p)
				break
			}
		}
	}

	fileRead := false
	usedPath := ""

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
		} else if configPath != "" || v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fileRead = true
		usedPath = v.ConfigFileUsed()
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.MergeWithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	source := "defaults"
	if fileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     &cfg,
		SourcePath: usedPath,
		Source:     source,
	}, nil
}

func setDefaults(v *viper.Viper) {
	d := config.New()
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.database", d.Database.Database)
	v.SetDefault("database.ssl_mode", d.Database.SSLMode)
	v.SetDefault("database.batch_size", d.Database.BatchSize)
	v.SetDefault("api.host", d.API.Host)
	v.SetDefault("api.port", d.API.Port)
	v.SetDefault("api.cors_origin", d.API.CORSOrigin)
	v.SetDefault("data.raw_dir", d.Data.RawDir)
	v.SetDefault("data.processed_dir", d.Data.ProcessedDir)
	v.SetDefault("data.catalog_path", d.Data.CatalogPath)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.destination", d.Log.Destination)
}

func defaultPaths() []string {
	paths := []string{"foodgap.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "foodgap", "foodgap.yaml"))
	}
	return paths
}

// hasEnvVars reports whether any FOODGAP_ environment variables are set.
func hasEnvVars() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "FOODGAP_") {
			return true
		}
	}
	return false
}
