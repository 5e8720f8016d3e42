// Package ioingest runs the ingestion pipeline for one dataset: load the
// raw extract, transform it, create or verify the destination table, write
// the rows, and export a Parquet snapshot.
package ioingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/nycfoodgap/foodgap/pkg/catalog"
	"github.com/nycfoodgap/foodgap/pkg/config"
	"github.com/nycfoodgap/foodgap/pkg/dataset"
	"github.com/nycfoodgap/foodgap/pkg/storage"
)

// Result summarizes one dataset's ingestion.
type Result struct {
	DatasetID   string
	RowCount    int
	ParquetPath string
}

// Run ingests one catalog entry. On a storage failure the dataset's
// metadata record is marked failed before the error propagates; transform
// validation errors abort before any write.
func Run(
	ctx context.Context,
	st storage.Storage,
	cfg *config.Config,
	entry catalog.Entry,
) (*Result, error) {
	tr, err := dataset.Get(entry.ID)
	if err != nil {
		return nil, err
	}

	input := entry.Input
	if !filepath.IsAbs(input) {
		input = filepath.Join(cfg.Data.RawDir, input)
	}

	slog.Info("Ingesting dataset", "dataset", entry.ID, "input", input)

	raw, err := LoadExtract(input)
	if err != nil {
		return nil, err
	}

	cleaned, err := tr.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("transform failed for %s: %w", entry.ID, err)
	}

	sch := tr.Schema()
	if err := st.CreateTableFromSchema(ctx, sch); err != nil {
		return nil, err
	}

	var n int
	switch tr.Mode() {
	case dataset.ModeUpsert:
		n, err = st.Upsert(ctx, cleaned, sch.TableName, tr.ID(),
			tr.UniqueColumns())
	default:
		n, err = st.Store(ctx, cleaned, sch.TableName, tr.ID(), tr.Mode())
	}
	if err != nil {
		if mdErr := st.RecordFailure(ctx, tr.ID(), sch.TableName); mdErr != nil {
			slog.Error("Failed to record ingestion failure",
				"dataset", tr.ID(), "error", mdErr)
		}
		return nil, err
	}

	path, err := st.ExportParquet(cleaned, tr.ID(), "")
	if err != nil {
		return nil, err
	}

	slog.Info("Dataset ingested",
		"dataset", entry.ID,
		"rows", humanize.Comma(int64(n)),
		"parquet", path)

	return &Result{
		DatasetID:   entry.ID,
		RowCount:    n,
		ParquetPath: path,
	}, nil
}
