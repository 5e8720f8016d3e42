// Package schema provides typed table descriptors for the food gap
// pipeline. A Descriptor declares the destination table of one dataset:
// ordered columns with DDL types, indexes, and table-level constraints.
// Descriptors are constructed by dataset transformers and consumed by the
// storage layer to generate DDL.
package schema

import (
	"fmt"
)

// Column declares one table column.
type Column struct {
	// Name is the column identifier in the destination table.
	Name string

	// Type is the PostgreSQL DDL type, e.g. "VARCHAR(10)",
	// "GEOMETRY(MULTIPOLYGON, 4326)".
	Type string

	// Nullable allows NULL values. Ignored for primary-key columns.
	Nullable bool

	// Default is an optional DDL default expression.
	Default string

	// PrimaryKey marks the column as the table's primary key.
	PrimaryKey bool

	// Required marks the column as mandatory in the cleaned record set.
	// Primary-key columns are implicitly required.
	Required bool
}

// Index declares one secondary index.
type Index struct {
	// Name is the index identifier.
	Name string

	// Columns is the ordered list of indexed columns.
	Columns []string

	// Method is an optional index access method, e.g. "gist" for
	// geometry columns. Empty means the database default (btree).
	Method string
}

// Descriptor declares the destination table of one dataset. Column order
// determines DDL column order. Descriptors are immutable after
// construction by convention.
type Descriptor struct {
	TableName   string
	Columns     []Column
	Indexes     []Index
	Constraints []string
}

// Validate checks the descriptor for structural problems so malformed
// descriptors fail at construction rather than at DDL generation.
func (d Descriptor) Validate() error {
	if d.TableName == "" {
		return fmt.Errorf("schema: table name cannot be empty")
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("schema: table %s has no columns", d.TableName)
	}

	seen := make(map[string]bool, len(d.Columns))
	pkCount := 0
	for _, col := range d.Columns {
		if col.Name == "" {
			return fmt.Errorf("schema: table %s has an unnamed column", d.TableName)
		}
		if col.Type == "" {
			return fmt.Errorf("schema: column %s.%s has no type",
				d.TableName, col.Name)
		}
		if seen[col.Name] {
			return fmt.Errorf("schema: duplicate column %s.%s",
				d.TableName, col.Name)
		}
		seen[col.Name] = true
		if col.PrimaryKey {
			pkCount++
		}
	}
	if pkCount > 1 {
		return fmt.Errorf(
			"schema: table %s declares %d primary-key columns; "+
				"use a table-level constraint for composite keys",
			d.TableName, pkCount)
	}

	idxSeen := make(map[string]bool, len(d.Indexes))
	for _, idx := range d.Indexes {
		if idx.Name == "" {
			return fmt.Errorf("schema: table %s has an unnamed index", d.TableName)
		}
		if idxSeen[idx.Name] {
			return fmt.Errorf("schema: duplicate index %s on %s",
				idx.Name, d.TableName)
		}
		idxSeen[idx.Name] = true
		if len(idx.Columns) == 0 {
			return fmt.Errorf("schema: index %s on %s has no columns",
				idx.Name, d.TableName)
		}
		for _, c := range idx.Columns {
			if !seen[c] {
				return fmt.Errorf("schema: index %s references unknown column %s.%s",
					idx.Name, d.TableName, c)
			}
		}
	}

	return nil
}

// ColumnNames returns the column names in DDL order.
func (d Descriptor) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// RequiredColumns returns the names of columns marked required or
// primary-key, in DDL order.
func (d Descriptor) RequiredColumns() []string {
	var names []string
	for _, col := range d.Columns {
		if col.Required || col.PrimaryKey {
			names = append(names, col.Name)
		}
	}
	return names
}

// Column returns the column with the given name, if present.
func (d Descriptor) Column(name string) (Column, bool) {
	for _, col := range d.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// WithMetadataColumns returns a copy of the descriptor with the two
// mandatory ingestion metadata columns appended. Every stored dataset
// carries them.
func WithMetadataColumns(d Descriptor) Descriptor {
	cols := make([]Column, len(d.Columns), len(d.Columns)+2)
	copy(cols, d.Columns)
	cols = append(cols,
		Column{
			Name:     "dataset_id",
			Type:     "VARCHAR(20)",
			Required: true,
		},
		Column{
			Name:     "ingestion_timestamp",
			Type:     "TIMESTAMP",
			Default:  "CURRENT_TIMESTAMP",
			Required: true,
		},
	)
	d.Columns = cols
	return d
}
