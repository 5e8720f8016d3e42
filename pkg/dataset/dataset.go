// Package dataset defines the transformer contract for NYC Open Data
// datasets and the shared cleaning primitives concrete transformers build
// on. One transformer exists per dataset; a registry maps dataset
// identifiers to implementations.
package dataset

import (
	"fmt"
	"sort"

	"github.com/nycfoodgap/foodgap/pkg/frame"
	"github.com/nycfoodgap/foodgap/pkg/schema"
)

// Store modes for Transformer.Mode.
const (
	ModeAppend  = "append"
	ModeReplace = "replace"
	ModeUpsert  = "upsert"
)

// Transformer converts one dataset's raw extract into its cleaned,
// storage-ready record set. Implementations are pure: Transform never
// mutates its input and Schema is deterministic.
type Transformer interface {
	// ID returns the dataset identifier, e.g. "ntas_2020".
	ID() string

	// Name returns the human-readable dataset title.
	Name() string

	// Transform cleans a raw extract: renames source columns, drops
	// platform bookkeeping columns, coerces numerics, converts geometry,
	// appends ingestion metadata, and validates required columns.
	Transform(raw frame.Frame) (frame.Frame, error)

	// Schema returns the dataset's table descriptor, including the two
	// ingestion metadata columns.
	Schema() schema.Descriptor

	// Mode selects how the storage layer writes the cleaned record set:
	// append, replace, or upsert.
	Mode() string

	// UniqueColumns returns the conflict key used by upsert mode. Empty
	// for append/replace datasets.
	UniqueColumns() []string
}

// TableName returns the destination table of a transformer.
func TableName(t Transformer) string {
	return t.Schema().TableName
}

var registry = map[string]Transformer{}

// Register adds a transformer to the registry. Registering the same
// dataset id twice panics; dataset ids are static program configuration.
func Register(t Transformer) {
	if _, ok := registry[t.ID()]; ok {
		panic(fmt.Sprintf("dataset: %s registered twice", t.ID()))
	}
	registry[t.ID()] = t
}

// Get returns the transformer for a dataset id.
func Get(id string) (Transformer, error) {
	t, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("dataset: unknown dataset %q", id)
	}
	return t, nil
}

// IDs returns the registered dataset ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
