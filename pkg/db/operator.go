// Package db defines the database connection contract. The implementation
// lives in internal/iodb.
package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nycfoodgap/foodgap/pkg/config"
)

// ErrNotConnected is returned by operations attempted before Connect or
// after Close. Closed operators fail clearly rather than reconnecting
// transparently; a reconnect would hide configuration mistakes in the
// per-request query path.
var ErrNotConnected = errors.New("db: not connected")

// Operator manages the database connection lifecycle and exposes the
// pgxpool.Pool for the storage layer to execute its SQL operations.
type Operator interface {
	// Connect establishes a connection pool to the database and verifies
	// it with a ping.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close releases the connection pool. Operations after Close return
	// ErrNotConnected.
	Close() error

	// Pool returns the underlying pgxpool.Pool, or nil when not
	// connected.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)
}
