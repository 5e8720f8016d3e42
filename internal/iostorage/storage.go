// Package iostorage implements the storage.Storage contract over pgx.
// This is an impure I/O package: every operation talks to PostgreSQL or
// the filesystem.
package iostorage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nycfoodgap/foodgap/pkg/config"
	"github.com/nycfoodgap/foodgap/pkg/db"
	"github.com/nycfoodgap/foodgap/pkg/schema"
	"github.com/nycfoodgap/foodgap/pkg/storage"
)

// pgStorage implements storage.Storage.
type pgStorage struct {
	operator db.Operator
	cfg      *config.Config
}

// New creates a Storage over a connected operator.
func New(op db.Operator, cfg *config.Config) storage.Storage {
	return &pgStorage{operator: op, cfg: cfg}
}

// Init creates or migrates the dataset_metadata table via GORM
// AutoMigrate, reusing the operator's pool.
func (s *pgStorage) Init(ctx context.Context) error {
	pool := s.operator.Pool()
	if pool == nil {
		return db.ErrNotConnected
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		slog.Error("Failed to open GORM connection", "error", err)
		return fmt.Errorf("failed to open GORM connection: %w", err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		slog.Error("Failed to migrate bookkeeping tables", "error", err)
		return fmt.Errorf("failed to migrate bookkeeping tables: %w", err)
	}

	slog.Info("Dataset metadata table created/verified")
	return nil
}

// CreateTableFromSchema creates the descriptor's table and indexes.
// Idempotent thanks to IF NOT EXISTS in the generated DDL.
func (s *pgStorage) CreateTableFromSchema(
	ctx context.Context,
	d schema.Descriptor,
) error {
	pool := s.operator.Pool()
	if pool == nil {
		return db.ErrNotConnected
	}

	if err := d.Validate(); err != nil {
		return err
	}

	slog.Info("Creating table", "table", d.TableName)

	if _, err := pool.Exec(ctx, d.TableDDL()); err != nil {
		slog.Error("Failed to create table", "table", d.TableName, "error", err)
		return fmt.Errorf("failed to create table %s: %w", d.TableName, err)
	}

	for _, stmt := range d.IndexDDL() {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			slog.Error("Failed to create index",
				"table", d.TableName, "error", err)
			return fmt.Errorf("failed to create index on %s: %w",
				d.TableName, err)
		}
	}

	slog.Info("Table created/verified with indexes", "table", d.TableName)
	return nil
}

// Close releases the database connection. Further operations fail with
// db.ErrNotConnected.
func (s *pgStorage) Close() error {
	err := s.operator.Close()
	if err == nil {
		slog.Info("Database connection closed")
	}
	return err
}

// tableColumns reads the destination table's column set from
// information_schema, used for column-set reconciliation before writes.
func (s *pgStorage) tableColumns(
	ctx context.Context,
	tableName string,
) (map[string]bool, error) {
	pool := s.operator.Pool()

	rows, err := pool.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
	`, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", tableName, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", tableName, err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", tableName, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	return cols, nil
}

// reconcileColumns fails fast when the record set carries columns the
// destination table lacks. Silence here would mean silently dropped data.
func reconcileColumns(
	tableName string,
	frameCols []string,
	tableCols map[string]bool,
) error {
	var unknown []string
	for _, c := range frameCols {
		if !tableCols[c] {
			unknown = append(unknown, c)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf(
			"record set columns %v do not exist in table %s",
			unknown, tableName)
	}
	return nil
}
