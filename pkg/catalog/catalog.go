// Package catalog provides the datasets.yaml registry: the list of
// datasets an ingest run processes and where their raw extracts live.
//
// Example datasets.yaml:
//
//	datasets:
//	  - id: ntas_2020
//	    input: data/raw/ntas_2020.json
//	  - id: food_supply_gaps
//	    input: data/raw/food_supply_gaps.json
//	    enabled: false
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nycfoodgap/foodgap/pkg/dataset"
)

// Entry configures one dataset for ingestion.
type Entry struct {
	// ID is the dataset identifier; it must match a registered
	// transformer.
	ID string `yaml:"id"`

	// Input is the path of the raw extract (JSON array of records).
	// Relative paths resolve against the raw data directory.
	Input string `yaml:"input"`

	// Enabled excludes the dataset from full runs when false. Defaults
	// to true.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the entry participates in full ingest runs.
func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Catalog is the parsed datasets.yaml file.
type Catalog struct {
	Datasets []Entry `yaml:"datasets"`

	// Warnings holds non-fatal validation issues (not serialized).
	Warnings []string `yaml:"-"`
}

// Load reads and validates a datasets.yaml file. Unknown dataset ids
// produce warnings, not errors, so a catalog can reference datasets whose
// transformer ships in a later build; duplicate ids and missing fields are
// errors.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(c.Datasets) == 0 {
		return nil, fmt.Errorf("catalog %s lists no datasets", path)
	}

	seen := make(map[string]bool, len(c.Datasets))
	for i, e := range c.Datasets {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if e.Input == "" {
			return nil, fmt.Errorf("catalog entry %s has no input", e.ID)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("catalog lists %s twice", e.ID)
		}
		seen[e.ID] = true

		if _, err := dataset.Get(e.ID); err != nil {
			c.Warnings = append(c.Warnings, fmt.Sprintf(
				"dataset %s has no registered transformer", e.ID))
		}
	}

	return &c, nil
}

// Entry returns the catalog entry for a dataset id.
func (c *Catalog) Entry(id string) (Entry, bool) {
	for _, e := range c.Datasets {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Enabled returns the entries enabled for full ingest runs, in catalog
// order.
func (c *Catalog) Enabled() []Entry {
	var out []Entry
	for _, e := range c.Datasets {
		if e.IsEnabled() {
			out = append(out, e)
		}
	}
	return out
}
