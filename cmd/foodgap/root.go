package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nycfoodgap/foodgap/internal/ioconfig"
	"github.com/nycfoodgap/foodgap/internal/iologger"
	"github.com/nycfoodgap/foodgap/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foodgap",
		Short: "Manage the NYC food gap data pipeline",
		Long: `foodgap is a CLI tool for the NYC food gap data pipeline: it loads
raw NYC Open Data extracts, cleans and validates them, writes them to
PostgreSQL with Parquet snapshots, and serves the aggregated food-supply-gap
map data over HTTP.

The tool provides three main phases:
  - init:   Create the bookkeeping tables
  - ingest: Transform and load datasets listed in the catalog
  - serve:  Run the visualization API server

Configuration precedence (highest to lowest):
  1. Environment variables (FOODGAP_*)
  2. Config file (foodgap.yaml)
  3. Built-in defaults

Environment Variables:
  All configuration can be set via FOODGAP_* environment variables.
  Nested fields use underscores (database.host → FOODGAP_DATABASE_HOST).

  Examples:
    FOODGAP_DATABASE_HOST       PostgreSQL host
    FOODGAP_DATABASE_PORT       PostgreSQL port
    FOODGAP_DATABASE_USER       PostgreSQL user
    FOODGAP_DATABASE_PASSWORD   PostgreSQL password
    FOODGAP_DATABASE_DATABASE   Database name
    FOODGAP_DATABASE_BATCH_SIZE Insert batch size
    FOODGAP_API_PORT            API server port
    FOODGAP_LOG_LEVEL           Log level (debug/info/warn/error)

  See 'go doc github.com/nycfoodgap/foodgap/pkg/config' for the complete
  list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			result, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result.Config

			iologger.Init(cfg.Log)

			switch result.Source {
			case "file":
				fmt.Printf("Using config from: %s\n", result.SourcePath)
			case "defaults+env":
				fmt.Println("Using built-in defaults with environment variable overrides")
			case "defaults":
				fmt.Println("Using built-in defaults (no config file)")
			}

			return nil
		},
		SilenceErrors: false,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./foodgap.yaml or ~/.config/foodgap/foodgap.yaml)")

	rootCmd.Flags().BoolP("version", "V", false, "version for foodgap")

	rootCmd.AddCommand(getInitCmd())
	rootCmd.AddCommand(getIngestCmd())
	rootCmd.AddCommand(getServeCmd())

	return rootCmd
}

// getConfig returns the loaded configuration (for use in subcommands)
func getConfig() *config.Config {
	return cfg
}
