package schema_test

import (
	"strings"
	"testing"

	"github.com/nycfoodgap/foodgap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDescriptor() schema.Descriptor {
	return schema.Descriptor{
		TableName: "ntas_2020",
		Columns: []schema.Column{
			{Name: "nta2020", Type: "VARCHAR(6)", PrimaryKey: true},
			{Name: "nta_name", Type: "VARCHAR(255)", Required: true},
			{Name: "boro_code", Type: "INTEGER", Nullable: true},
			{Name: "geom", Type: "GEOMETRY(MULTIPOLYGON, 4326)", Nullable: true},
		},
		Indexes: []schema.Index{
			{Name: "idx_ntas_2020_boro_code", Columns: []string{"boro_code"}},
			{Name: "idx_ntas_2020_geom", Columns: []string{"geom"}, Method: "gist"},
		},
	}
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*schema.Descriptor)
		errSub string
	}{
		{
			name:   "valid",
			mutate: func(d *schema.Descriptor) {},
		},
		{
			name:   "empty table name",
			mutate: func(d *schema.Descriptor) { d.TableName = "" },
			errSub: "table name",
		},
		{
			name:   "no columns",
			mutate: func(d *schema.Descriptor) { d.Columns = nil },
			errSub: "no columns",
		},
		{
			name: "duplicate column",
			mutate: func(d *schema.Descriptor) {
				d.Columns = append(d.Columns, schema.Column{
					Name: "nta_name", Type: "TEXT",
				})
			},
			errSub: "duplicate column",
		},
		{
			name: "column without type",
			mutate: func(d *schema.Descriptor) {
				d.Columns = append(d.Columns, schema.Column{Name: "extra"})
			},
			errSub: "no type",
		},
		{
			name: "two primary keys",
			mutate: func(d *schema.Descriptor) {
				d.Columns = append(d.Columns, schema.Column{
					Name: "other_id", Type: "INTEGER", PrimaryKey: true,
				})
			},
			errSub: "primary-key",
		},
		{
			name: "index over unknown column",
			mutate: func(d *schema.Descriptor) {
				d.Indexes = append(d.Indexes, schema.Index{
					Name: "idx_bad", Columns: []string{"nope"},
				})
			},
			errSub: "unknown column",
		},
		{
			name: "duplicate index name",
			mutate: func(d *schema.Descriptor) {
				d.Indexes = append(d.Indexes, schema.Index{
					Name: "idx_ntas_2020_geom", Columns: []string{"geom"},
				})
			},
			errSub: "duplicate index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDescriptor()
			tt.mutate(&d)
			err := d.Validate()
			if tt.errSub == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestTableDDL(t *testing.T) {
	d := validDescriptor()
	ddl := d.TableDDL()

	// Idempotent form, so the storage layer can call it repeatedly.
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "ntas_2020"`)
	assert.Contains(t, ddl, `"nta2020" VARCHAR(6) PRIMARY KEY`)
	assert.Contains(t, ddl, `"nta_name" VARCHAR(255) NOT NULL`)
	// Nullable columns carry no NOT NULL.
	assert.Contains(t, ddl, `"boro_code" INTEGER,`)
	assert.NotContains(t, ddl, `"boro_code" INTEGER NOT NULL`)
	// Column order follows descriptor order.
	assert.Less(t,
		strings.Index(ddl, `"nta2020"`),
		strings.Index(ddl, `"geom"`))
}

func TestTableDDLDefaultsAndConstraints(t *testing.T) {
	d := schema.Descriptor{
		TableName: "food_supply_gaps",
		Columns: []schema.Column{
			{Name: "nta_code", Type: "VARCHAR(6)", Required: true},
			{Name: "year", Type: "INTEGER", Required: true},
			{
				Name:    "ingestion_timestamp",
				Type:    "TIMESTAMP",
				Default: "CURRENT_TIMESTAMP",
			},
		},
		Constraints: []string{`UNIQUE ("nta_code", "year")`},
	}
	require.NoError(t, d.Validate())

	ddl := d.TableDDL()
	assert.Contains(t, ddl,
		`"ingestion_timestamp" TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP`)
	assert.Contains(t, ddl, `UNIQUE ("nta_code", "year")`)
}

func TestIndexDDL(t *testing.T) {
	d := validDescriptor()
	stmts := d.IndexDDL()
	require.Len(t, stmts, 2)

	assert.Equal(t,
		`CREATE INDEX IF NOT EXISTS "idx_ntas_2020_boro_code" `+
			`ON "ntas_2020" ("boro_code");`,
		stmts[0])
	assert.Contains(t, stmts[1], `USING gist ("geom")`)
}

func TestRequiredColumns(t *testing.T) {
	d := validDescriptor()
	assert.Equal(t, []string{"nta2020", "nta_name"}, d.RequiredColumns())
}

func TestWithMetadataColumns(t *testing.T) {
	d := validDescriptor()
	md := schema.WithMetadataColumns(d)

	require.Len(t, md.Columns, len(d.Columns)+2)

	dsID, ok := md.Column("dataset_id")
	require.True(t, ok)
	assert.False(t, dsID.Nullable)
	assert.True(t, dsID.Required)
	assert.Equal(t, "VARCHAR(20)", dsID.Type)

	ts, ok := md.Column("ingestion_timestamp")
	require.True(t, ok)
	assert.False(t, ts.Nullable)
	assert.Equal(t, "CURRENT_TIMESTAMP", ts.Default)

	// Source descriptor is untouched.
	_, ok = d.Column("dataset_id")
	assert.False(t, ok)
}

func TestDatasetMetadataTableName(t *testing.T) {
	assert.Equal(t, "dataset_metadata", schema.DatasetMetadata{}.TableName())
}
