// Package storage defines the data storage contract: table creation from
// descriptors, bulk stores, upserts, ingestion metadata tracking, Parquet
// export, and read queries. The implementation lives in internal/iostorage.
package storage

import (
	"context"

	"github.com/nycfoodgap/foodgap/pkg/frame"
	"github.com/nycfoodgap/foodgap/pkg/schema"
)

// Storage owns database writes and reads for the pipeline. Any database
// error is logged with context and returned unchanged; callers decide how
// to react. There is no retry.
type Storage interface {
	// Init creates or migrates the bookkeeping tables (dataset_metadata).
	Init(ctx context.Context) error

	// CreateTableFromSchema creates the descriptor's table and indexes.
	// Idempotent: safe to call repeatedly with no schema drift.
	CreateTableFromSchema(ctx context.Context, d schema.Descriptor) error

	// Store bulk-writes the cleaned record set into the destination table
	// using batched multi-row inserts, then overwrites the dataset's
	// metadata record with the new total row count and a success status.
	// Mode "replace" truncates the table first; "append" adds rows.
	// The record set's columns must match the destination table's
	// columns; a divergence fails before any row is written.
	// Returns the number of rows written.
	Store(ctx context.Context, f frame.Frame, tableName, datasetID, mode string) (int, error)

	// Upsert writes the record set row by row with an
	// insert-or-update-all-non-key-columns policy keyed on uniqueColumns,
	// inside one transaction committed at the end. Then updates the
	// dataset's metadata record like Store. Returns the number of rows
	// written.
	Upsert(ctx context.Context, f frame.Frame, tableName, datasetID string, uniqueColumns []string) (int, error)

	// RecordFailure overwrites the dataset's metadata record with a
	// failure status. Called when a store or upsert fails so the
	// metadata reflects the most recent ingestion attempt.
	RecordFailure(ctx context.Context, datasetID, tableName string) error

	// ExportParquet writes the record set to a snappy-compressed Parquet
	// file. An empty path defaults to <processed_dir>/<dataset_id>.parquet.
	// Returns the path written.
	ExportParquet(f frame.Frame, datasetID, path string) (string, error)

	// Query executes a read query and returns a rectangular result.
	Query(ctx context.Context, sql string, args ...any) (frame.Frame, error)

	// QueryScalar executes a query returning a single value, e.g. a
	// server-side aggregated JSON document.
	QueryScalar(ctx context.Context, sql string, args ...any) (any, error)

	// Close releases the database connection. Operations after Close
	// fail with db.ErrNotConnected.
	Close() error
}
