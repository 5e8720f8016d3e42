// Package ntas2020 transforms the 2020 Neighborhood Tabulation Areas
// dataset from NYC Open Data into the ntas_2020 table.
package ntas2020

import (
	"log/slog"
	"time"

	"github.com/nycfoodgap/foodgap/pkg/dataset"
	"github.com/nycfoodgap/foodgap/pkg/frame"
	"github.com/nycfoodgap/foodgap/pkg/schema"
)

const (
	id   = "ntas_2020"
	name = "2020 Neighborhood Tabulation Areas"
)

// columnMapping renames the source's irregular abbreviations to the
// destination naming scheme. An explicit map, not a generic algorithm.
var columnMapping = map[string]string{
	"borocode":   "boro_code",
	"boroname":   "boro_name",
	"countyfips": "county_fips",
	"nta2020":    "nta2020",
	"ntaname":    "nta_name",
	"ntaabbrev":  "nta_abbrev",
	"ntatype":    "nta_type",
	"cdta2020":   "cdta2020",
	"cdtaname":   "cdta_name",
	"shape_leng": "shape_leng",
	"shape_area": "shape_area",
	"the_geom":   "geom",
}

var numericColumns = []string{"boro_code", "shape_leng", "shape_area"}

// Transformer cleans NTA 2020 extracts.
type Transformer struct{}

// New returns the NTA 2020 transformer.
func New() Transformer {
	return Transformer{}
}

func (Transformer) ID() string   { return id }
func (Transformer) Name() string { return name }

// Mode is replace: the NTA boundaries are a full snapshot, each ingestion
// supersedes the previous one.
func (Transformer) Mode() string { return dataset.ModeReplace }

func (Transformer) UniqueColumns() []string { return []string{"nta2020"} }

// Transform cleans a raw NTA extract. Per-row anomalies (bad numerics,
// bad geometry) degrade to null; missing required columns abort the
// transform.
func (t Transformer) Transform(raw frame.Frame) (frame.Frame, error) {
	slog.Info("Transforming NTA records", "dataset", id, "count", raw.Len())

	f := raw.Rename(columnMapping)
	f = dataset.DropPlatformColumns(f)
	f = dataset.CoerceNumeric(f, numericColumns...)
	f = dataset.ConvertGeometry(f, "geom", id)
	f = dataset.AddMetadata(f, id, time.Now())

	sch := t.Schema()
	if err := dataset.ValidateRequiredColumns(name, f, sch.RequiredColumns()); err != nil {
		return frame.Frame{}, err
	}

	return f, nil
}

// Schema returns the ntas_2020 table descriptor with metadata columns
// appended.
func (Transformer) Schema() schema.Descriptor {
	return schema.WithMetadataColumns(schema.Descriptor{
		TableName: id,
		Columns: []schema.Column{
			{Name: "nta2020", Type: "VARCHAR(6)", PrimaryKey: true},
			{Name: "nta_name", Type: "VARCHAR(255)", Required: true},
			{Name: "nta_abbrev", Type: "VARCHAR(20)", Nullable: true},
			{Name: "nta_type", Type: "VARCHAR(10)", Nullable: true},
			{Name: "boro_code", Type: "INTEGER", Required: true, Nullable: true},
			{Name: "boro_name", Type: "VARCHAR(50)", Nullable: true},
			{Name: "county_fips", Type: "VARCHAR(5)", Nullable: true},
			{Name: "cdta2020", Type: "VARCHAR(6)", Nullable: true},
			{Name: "cdta_name", Type: "VARCHAR(255)", Nullable: true},
			{Name: "shape_leng", Type: "NUMERIC", Nullable: true},
			{Name: "shape_area", Type: "NUMERIC", Nullable: true},
			{Name: "geom", Type: "GEOMETRY(MULTIPOLYGON, 4326)", Nullable: true},
		},
		Indexes: []schema.Index{
			{Name: "idx_ntas_2020_boro_code", Columns: []string{"boro_code"}},
			{Name: "idx_ntas_2020_geom", Columns: []string{"geom"}, Method: "gist"},
		},
	})
}

func init() {
	dataset.Register(New())
}
