// Package main provides the foodgap CLI application.
// foodgap manages the NYC food gap data pipeline: database setup, dataset
// ingestion, and the visualization API server.
package main

import (
	"os"

	// Dataset transformers register themselves on import.
	_ "github.com/nycfoodgap/foodgap/pkg/dataset/foodgaps"
	_ "github.com/nycfoodgap/foodgap/pkg/dataset/ntas2020"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
