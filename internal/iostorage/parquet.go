package iostorage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/parquet-go/parquet-go"

	"github.com/nycfoodgap/foodgap/pkg/frame"
)

// ExportParquet writes the record set to a snappy-compressed Parquet
// file. An empty path defaults to <processed_dir>/<dataset_id>.parquet.
func (s *pgStorage) ExportParquet(
	f frame.Frame,
	datasetID, path string,
) (string, error) {
	if path == "" {
		path = filepath.Join(s.cfg.Data.ProcessedDir, datasetID+".parquet")
	}

	slog.Info("Exporting to Parquet", "dataset", datasetID, "path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		slog.Error("Failed to export to Parquet", "dataset", datasetID, "error", err)
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		slog.Error("Failed to export to Parquet", "dataset", datasetID, "error", err)
		return "", fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	pqSchema := parquetSchema(datasetID, f)
	writer := parquet.NewGenericWriter[map[string]any](
		file, pqSchema, parquet.Compression(&parquet.Snappy))

	rows := parquetRows(f)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			slog.Error("Failed to export to Parquet",
				"dataset", datasetID, "error", err)
			return "", fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		slog.Error("Failed to export to Parquet", "dataset", datasetID, "error", err)
		return "", fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	slog.Info("Successfully exported to Parquet",
		"dataset", datasetID,
		"count", humanize.Comma(int64(f.Len())),
		"path", path)
	return path, nil
}

// parquetSchema infers a Parquet schema from the frame. Column types come
// from the first non-nil cell; columns with no values default to strings.
// Every column is optional since per-row anomalies degrade to null.
func parquetSchema(name string, f frame.Frame) *parquet.Schema {
	group := parquet.Group{}
	for _, col := range f.Columns() {
		group[col] = parquet.Optional(parquetNode(firstValue(f, col)))
	}
	return parquet.NewSchema(name, group)
}

func firstValue(f frame.Frame, col string) any {
	for i := 0; i < f.Len(); i++ {
		if v, _ := f.Value(i, col); v != nil {
			return v
		}
	}
	return nil
}

func parquetNode(v any) parquet.Node {
	switch v.(type) {
	case float64, float32:
		return parquet.Leaf(parquet.DoubleType)
	case int, int64, int32:
		return parquet.Int(64)
	case bool:
		return parquet.Leaf(parquet.BooleanType)
	case time.Time:
		return parquet.Timestamp(parquet.Millisecond)
	default:
		return parquet.String()
	}
}

// parquetRows converts frame records into writable rows. Timestamps become
// epoch milliseconds to match the schema's timestamp leaves; everything
// else that is neither numeric nor boolean is stringified.
func parquetRows(f frame.Frame) []map[string]any {
	rows := f.Records()
	for _, rec := range rows {
		for k, v := range rec {
			switch x := v.(type) {
			case nil, float64, float32, int, int32, int64, bool, string:
				// Passed through as-is.
			case time.Time:
				rec[k] = x.UnixMilli()
			default:
				rec[k] = fmt.Sprint(x)
			}
		}
	}
	return rows
}
