package iostorage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"

	"github.com/nycfoodgap/foodgap/pkg/dataset"
	"github.com/nycfoodgap/foodgap/pkg/db"
	"github.com/nycfoodgap/foodgap/pkg/frame"
	"github.com/nycfoodgap/foodgap/pkg/schema"
)

// Store bulk-writes the record set using batched multi-row inserts. Replace
// mode truncates the destination table first; truncate and inserts share
// one transaction so a failed load never leaves the table half-replaced.
func (s *pgStorage) Store(
	ctx context.Context,
	f frame.Frame,
	tableName, datasetID, mode string,
) (int, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, db.ErrNotConnected
	}

	cols := f.Columns()
	tableCols, err := s.tableColumns(ctx, tableName)
	if err != nil {
		slog.Error("Failed to store data", "table", tableName, "error", err)
		return 0, err
	}
	if err := reconcileColumns(tableName, cols, tableCols); err != nil {
		slog.Error("Failed to store data", "table", tableName, "error", err)
		return 0, err
	}

	slog.Info("Storing records",
		"table", tableName,
		"count", humanize.Comma(int64(f.Len())),
		"mode", mode)

	tx, err := pool.Begin(ctx)
	if err != nil {
		slog.Error("Failed to begin transaction", "table", tableName, "error", err)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if mode == dataset.ModeReplace {
		if _, err := tx.Exec(ctx,
			"TRUNCATE TABLE "+quoteIdent(tableName)); err != nil {
			slog.Error("Failed to truncate table", "table", tableName, "error", err)
			return 0, fmt.Errorf("failed to truncate %s: %w", tableName, err)
		}
	}

	rows := f.Rows()
	batch := s.cfg.Database.BatchSize
	bar := newProgressBar(len(rows), "store "+tableName)

	for start := 0; start < len(rows); start += batch {
		end := min(start+batch, len(rows))
		chunk := rows[start:end]

		sql := multiInsertSQL(tableName, cols, len(chunk))
		if _, err := tx.Exec(ctx, sql, flattenRows(chunk)...); err != nil {
			bar.Finish()
			slog.Error("Failed to insert batch",
				"table", tableName, "offset", start, "error", err)
			return 0, fmt.Errorf("failed to insert into %s: %w", tableName, err)
		}
		bar.Add(len(chunk))
	}
	bar.Finish()

	if err := tx.Commit(ctx); err != nil {
		slog.Error("Failed to commit store", "table", tableName, "error", err)
		return 0, fmt.Errorf("failed to commit store into %s: %w", tableName, err)
	}

	if err := s.updateMetadata(ctx, datasetID, tableName, f.Len(),
		schema.StatusSuccess); err != nil {
		return 0, err
	}

	slog.Info("Successfully stored records",
		"table", tableName, "count", humanize.Comma(int64(f.Len())))
	return f.Len(), nil
}

// Upsert writes the record set row by row with an on-conflict-update-all
// policy keyed on uniqueColumns. All rows share one transaction committed
// at the end, so a mid-batch failure rolls back instead of leaving a
// partial write.
func (s *pgStorage) Upsert(
	ctx context.Context,
	f frame.Frame,
	tableName, datasetID string,
	uniqueColumns []string,
) (int, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, db.ErrNotConnected
	}
	if len(uniqueColumns) == 0 {
		return 0, fmt.Errorf("upsert into %s requires unique columns", tableName)
	}

	cols := f.Columns()
	tableCols, err := s.tableColumns(ctx, tableName)
	if err != nil {
		slog.Error("Failed to upsert data", "table", tableName, "error", err)
		return 0, err
	}
	if err := reconcileColumns(tableName, cols, tableCols); err != nil {
		slog.Error("Failed to upsert data", "table", tableName, "error", err)
		return 0, err
	}
	for _, c := range uniqueColumns {
		if !f.Has(c) {
			err := fmt.Errorf("unique column %s missing from record set", c)
			slog.Error("Failed to upsert data", "table", tableName, "error", err)
			return 0, err
		}
	}

	slog.Info("Upserting records",
		"table", tableName,
		"count", humanize.Comma(int64(f.Len())))

	tx, err := pool.Begin(ctx)
	if err != nil {
		slog.Error("Failed to begin transaction", "table", tableName, "error", err)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := upsertSQL(tableName, cols, uniqueColumns)
	bar := newProgressBar(f.Len(), "upsert "+tableName)

	for i, row := range f.Rows() {
		if _, err := tx.Exec(ctx, sql, row...); err != nil {
			bar.Finish()
			slog.Error("Failed to upsert row",
				"table", tableName, "row", i, "error", err)
			return 0, fmt.Errorf("failed to upsert into %s: %w", tableName, err)
		}
		bar.Increment()
	}
	bar.Finish()

	if err := tx.Commit(ctx); err != nil {
		slog.Error("Failed to commit upsert", "table", tableName, "error", err)
		return 0, fmt.Errorf("failed to commit upsert into %s: %w", tableName, err)
	}

	if err := s.updateMetadata(ctx, datasetID, tableName, f.Len(),
		schema.StatusSuccess); err != nil {
		return 0, err
	}

	slog.Info("Successfully upserted records",
		"table", tableName, "count", humanize.Comma(int64(f.Len())))
	return f.Len(), nil
}

// RecordFailure overwrites the dataset's metadata record with a failure
// status and zero rows, so dataset_metadata reflects the most recent
// attempt.
func (s *pgStorage) RecordFailure(
	ctx context.Context,
	datasetID, tableName string,
) error {
	return s.updateMetadata(ctx, datasetID, tableName, 0, schema.StatusFailure)
}

// updateMetadata overwrites the dataset's metadata record. One row per
// dataset: created on first store, replaced on every subsequent one.
func (s *pgStorage) updateMetadata(
	ctx context.Context,
	datasetID, tableName string,
	recordCount int,
	status string,
) error {
	pool := s.operator.Pool()
	if pool == nil {
		return db.ErrNotConnected
	}

	datasetName := datasetID
	if tr, err := dataset.Get(datasetID); err == nil {
		datasetName = tr.Name()
	}

	const sql = `
		INSERT INTO dataset_metadata
			(dataset_id, dataset_name, table_name, last_ingestion,
			 record_count, status)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, $4, $5)
		ON CONFLICT (dataset_id) DO UPDATE SET
			dataset_name = EXCLUDED.dataset_name,
			table_name = EXCLUDED.table_name,
			last_ingestion = CURRENT_TIMESTAMP,
			record_count = EXCLUDED.record_count,
			status = EXCLUDED.status
	`

	_, err := pool.Exec(ctx, sql,
		datasetID, datasetName, tableName, recordCount, status)
	if err != nil {
		slog.Error("Failed to update dataset metadata",
			"dataset", datasetID, "error", err)
		return fmt.Errorf("failed to update metadata for %s: %w", datasetID, err)
	}
	return nil
}

// newProgressBar creates a progress bar with consistent settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
