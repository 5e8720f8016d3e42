package dataset

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nycfoodgap/foodgap/pkg/frame"
)

// ValidationError reports required columns missing from a cleaned record
// set. It aborts the transform before any storage is attempted.
type ValidationError struct {
	Dataset string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required columns for %s: %s",
		e.Dataset, strings.Join(e.Missing, ", "))
}

var (
	punctRe = regexp.MustCompile(`[^\w\s]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeColumnName standardizes a column name: lowercase, punctuation
// stripped, whitespace runs collapsed to underscores. Datasets with
// irregular source abbreviations use explicit rename maps instead.
func NormalizeColumnName(name string) string {
	s := strings.ToLower(name)
	s = punctRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = spaceRe.ReplaceAllString(s, "_")
	return s
}

// NormalizeColumns applies NormalizeColumnName to every column.
func NormalizeColumns(f frame.Frame) frame.Frame {
	mapping := make(map[string]string)
	for _, c := range f.Columns() {
		mapping[c] = NormalizeColumnName(c)
	}
	return f.Rename(mapping)
}

// ValidateRequiredColumns checks that every required column is present in
// the frame. This is a column-presence check, not a per-row null check.
// The returned error names the dataset and the exact missing set.
func ValidateRequiredColumns(
	datasetName string,
	f frame.Frame,
	required []string,
) error {
	var missing []string
	for _, col := range required {
		if !f.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ValidationError{Dataset: datasetName, Missing: missing}
	}
	return nil
}

// platformPrefix marks columns injected by the Socrata Open Data platform
// (e.g. ":id", ":created_at") that are not part of any dataset.
const platformPrefix = ":"

// DropPlatformColumns removes platform-injected bookkeeping columns.
func DropPlatformColumns(f frame.Frame) frame.Frame {
	return f.Drop(func(c string) bool {
		return strings.HasPrefix(c, platformPrefix)
	})
}

// CoerceNumeric converts the named columns to float64. Values that cannot
// be parsed become nil; rows are never dropped. Columns absent from the
// frame are skipped.
func CoerceNumeric(f frame.Frame, cols ...string) frame.Frame {
	for _, col := range cols {
		f = f.Apply(col, toFloat)
	}
	return f
}

func toFloat(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		if n, err := x.Float64(); err == nil {
			return n
		}
		return nil
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return n
		}
		return nil
	default:
		return nil
	}
}

// AddMetadata appends the two mandatory metadata columns: the dataset id
// constant and one ingestion timestamp shared by the whole batch.
func AddMetadata(f frame.Frame, datasetID string, ts time.Time) frame.Frame {
	return f.
		AppendConst("dataset_id", datasetID).
		AppendConst("ingestion_timestamp", ts)
}
