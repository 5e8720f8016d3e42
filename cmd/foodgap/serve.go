package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nycfoodgap/foodgap/internal/ioapi"
)

func getServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the visualization API server",
		Long: `Run the HTTP server backing the food gap map.

Endpoints:
  GET /               Service banner
  GET /api/food-gaps  Food supply gaps by neighborhood for the latest
                      year, as a GeoJSON FeatureCollection

The GeoJSON document is aggregated inside PostgreSQL, so 'foodgap ingest'
must have loaded the neighborhood and food gap datasets first.

Examples:
  foodgap serve
  FOODGAP_API_PORT=9000 foodgap serve`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfig()

	srv := ioapi.NewServer(cfg, nil)
	fmt.Printf("Serving on http://%s:%d\n", cfg.API.Host, cfg.API.Port)
	return srv.ListenAndServe()
}
