package iostorage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nycfoodgap/foodgap/pkg/db"
	"github.com/nycfoodgap/foodgap/pkg/frame"
)

// Query executes a read query and returns the result as a frame.
func (s *pgStorage) Query(
	ctx context.Context,
	sql string,
	args ...any,
) (frame.Frame, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return frame.Frame{}, db.ErrNotConnected
	}

	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		slog.Error("Query failed", "error", err)
		return frame.Frame{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, fd := range fields {
		cols[i] = fd.Name
	}

	var values [][]any
	for rows.Next() {
		row, err := rows.Values()
		if err != nil {
			slog.Error("Query scan failed", "error", err)
			return frame.Frame{}, fmt.Errorf("query scan failed: %w", err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		slog.Error("Query failed", "error", err)
		return frame.Frame{}, fmt.Errorf("query failed: %w", err)
	}

	return frame.FromRows(cols, values)
}

// QueryScalar executes a query returning a single value.
func (s *pgStorage) QueryScalar(
	ctx context.Context,
	sql string,
	args ...any,
) (any, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, db.ErrNotConnected
	}

	var value any
	if err := pool.QueryRow(ctx, sql, args...).Scan(&value); err != nil {
		slog.Error("Scalar query failed", "error", err)
		return nil, fmt.Errorf("scalar query failed: %w", err)
	}
	return value, nil
}
