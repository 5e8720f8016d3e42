package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nycfoodgap/foodgap/internal/iodb"
	"github.com/nycfoodgap/foodgap/internal/ioingest"
	"github.com/nycfoodgap/foodgap/internal/iostorage"
	"github.com/nycfoodgap/foodgap/pkg/catalog"
	"github.com/nycfoodgap/foodgap/pkg/dataset"
	"github.com/nycfoodgap/foodgap/pkg/db"
)

func getIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [dataset...]",
		Short: "Transform and load datasets into PostgreSQL",
		Long: `Ingest datasets listed in the catalog (datasets.yaml).

For each dataset this command:
  1. Loads the raw JSON extract from the configured raw data directory
  2. Cleans, validates, and transforms the records
  3. Creates the destination table from the dataset's schema if needed
  4. Writes the rows (append, replace, or upsert, per dataset)
  5. Exports a Parquet snapshot to the processed data directory

Without arguments all enabled catalog entries are ingested in catalog
order. With arguments only the named datasets run, whether enabled or
not. A dataset failure is recorded in dataset_metadata and does not stop
the remaining datasets.

Registered datasets: ` + fmt.Sprint(dataset.IDs()) + `

Examples:
  foodgap ingest
  foodgap ingest ntas_2020
  foodgap ingest ntas_2020 food_supply_gaps`,
		RunE: runIngest,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	cat, err := catalog.Load(cfg.Data.CatalogPath)
	if err != nil {
		return err
	}
	for _, w := range cat.Warnings {
		slog.Warn("Catalog warning", "warning", w)
	}

	entries, err := selectEntries(cat, args)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("catalog %s has no enabled datasets", cfg.Data.CatalogPath)
	}

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	st := iostorage.New(op, cfg)
	if err := st.Init(ctx); err != nil {
		return err
	}

	var failed int
	for _, entry := range entries {
		res, err := ioingest.Run(ctx, st, cfg, entry)
		if err != nil {
			failed++
			slog.Error("Ingestion failed", "dataset", entry.ID, "error", err)
			fmt.Printf("✗ %s: %v\n", entry.ID, err)
			continue
		}
		fmt.Printf("✓ %s: %s rows → %s\n",
			res.DatasetID, humanize.Comma(int64(res.RowCount)), res.ParquetPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d datasets failed", failed, len(entries))
	}
	return nil
}

// selectEntries resolves the datasets to run: named ones when args are
// given, otherwise every enabled catalog entry.
func selectEntries(cat *catalog.Catalog, args []string) ([]catalog.Entry, error) {
	if len(args) == 0 {
		return cat.Enabled(), nil
	}
	out := make([]catalog.Entry, 0, len(args))
	for _, id := range args {
		e, ok := cat.Entry(id)
		if !ok {
			return nil, fmt.Errorf("dataset %s is not in the catalog", id)
		}
		out = append(out, e)
	}
	return out, nil
}
