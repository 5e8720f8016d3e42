// Package foodgaps transforms the neighborhood food supply gap metrics
// dataset into the food_supply_gaps table. Rows are keyed by neighborhood
// code and year, so re-ingesting a year's metrics upserts in place.
package foodgaps

import (
	"log/slog"
	"time"

	"github.com/nycfoodgap/foodgap/pkg/dataset"
	"github.com/nycfoodgap/foodgap/pkg/frame"
	"github.com/nycfoodgap/foodgap/pkg/schema"
)

const (
	id   = "food_supply_gaps"
	name = "Food Supply Gaps by NTA"
)

var columnMapping = map[string]string{
	"ntacode":              "nta_code",
	"nta_code":             "nta_code",
	"year":                 "year",
	"supply_gap_lbs":       "supply_gap_lbs",
	"food_insecure_pct":    "food_insecure_pct",
	"vulnerable_pop_score": "vulnerable_pop_score",
	"unemployment_rate":    "unemployment_rate",
}

var numericColumns = []string{
	"year",
	"supply_gap_lbs",
	"food_insecure_pct",
	"vulnerable_pop_score",
	"unemployment_rate",
}

// Transformer cleans food supply gap extracts.
type Transformer struct{}

// New returns the food supply gaps transformer.
func New() Transformer {
	return Transformer{}
}

func (Transformer) ID() string   { return id }
func (Transformer) Name() string { return name }

// Mode is upsert: metrics arrive per year and revisions of a year replace
// the earlier rows for the same neighborhood.
func (Transformer) Mode() string { return dataset.ModeUpsert }

func (Transformer) UniqueColumns() []string {
	return []string{"nta_code", "year"}
}

// Transform cleans a raw metrics extract.
func (t Transformer) Transform(raw frame.Frame) (frame.Frame, error) {
	slog.Info("Transforming food gap records", "dataset", id, "count", raw.Len())

	// Platform columns are dropped before normalization; normalizing
	// would strip the ":" prefix that identifies them.
	f := dataset.DropPlatformColumns(raw)
	f = dataset.NormalizeColumns(f)
	f = f.Rename(columnMapping)
	f = dataset.CoerceNumeric(f, numericColumns...)
	f = dataset.AddMetadata(f, id, time.Now())

	sch := t.Schema()
	if err := dataset.ValidateRequiredColumns(name, f, sch.RequiredColumns()); err != nil {
		return frame.Frame{}, err
	}

	return f, nil
}

// Schema returns the food_supply_gaps table descriptor. Uniqueness over
// (nta_code, year) is a table-level constraint because the key is
// composite.
func (Transformer) Schema() schema.Descriptor {
	return schema.WithMetadataColumns(schema.Descriptor{
		TableName: id,
		Columns: []schema.Column{
			{Name: "nta_code", Type: "VARCHAR(6)", Required: true},
			{Name: "year", Type: "INTEGER", Required: true},
			{Name: "supply_gap_lbs", Type: "NUMERIC", Nullable: true},
			{Name: "food_insecure_pct", Type: "NUMERIC", Nullable: true},
			{Name: "vulnerable_pop_score", Type: "NUMERIC", Nullable: true},
			{Name: "unemployment_rate", Type: "NUMERIC", Nullable: true},
		},
		Indexes: []schema.Index{
			{Name: "idx_food_supply_gaps_year", Columns: []string{"year"}},
		},
		Constraints: []string{
			`UNIQUE ("nta_code", "year")`,
		},
	})
}

func init() {
	dataset.Register(New())
}
