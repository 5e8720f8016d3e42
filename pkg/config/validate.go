package config

import (
	"fmt"
	"strings"
)

var validSSLModes = map[string]bool{
	"disable":     true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration values are usable. It returns an
// error describing the first problem found.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("database port %d out of range", c.Database.Port)
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if !validSSLModes[c.Database.SSLMode] {
		return fmt.Errorf("invalid ssl_mode %q", c.Database.SSLMode)
	}
	if c.Database.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.Database.BatchSize)
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api port %d out of range", c.API.Port)
	}
	if c.API.CORSOrigin == "" {
		return fmt.Errorf("api cors_origin cannot be empty")
	}
	if lvl := strings.ToLower(c.Log.Level); !validLogLevels[lvl] {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// MergeWithDefaults fills zero-valued fields from the default config so a
// partially specified file still yields a complete configuration.
func (c *Config) MergeWithDefaults() {
	d := New()
	if c.Database.Host == "" {
		c.Database.Host = d.Database.Host
	}
	if c.Database.Port == 0 {
		c.Database.Port = d.Database.Port
	}
	if c.Database.User == "" {
		c.Database.User = d.Database.User
	}
	if c.Database.Password == "" {
		c.Database.Password = d.Database.Password
	}
	if c.Database.Database == "" {
		c.Database.Database = d.Database.Database
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = d.Database.SSLMode
	}
	if c.Database.BatchSize == 0 {
		c.Database.BatchSize = d.Database.BatchSize
	}
	if c.API.Host == "" {
		c.API.Host = d.API.Host
	}
	if c.API.Port == 0 {
		c.API.Port = d.API.Port
	}
	if c.API.CORSOrigin == "" {
		c.API.CORSOrigin = d.API.CORSOrigin
	}
	if c.Data.RawDir == "" {
		c.Data.RawDir = d.Data.RawDir
	}
	if c.Data.ProcessedDir == "" {
		c.Data.ProcessedDir = d.Data.ProcessedDir
	}
	if c.Data.CatalogPath == "" {
		c.Data.CatalogPath = d.Data.CatalogPath
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Log.Destination == "" {
		c.Log.Destination = d.Log.Destination
	}
}
