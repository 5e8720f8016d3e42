package ioingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nycfoodgap/foodgap/pkg/frame"
)

// LoadExtract reads a raw dataset extract into a frame. Extracts are JSON
// arrays of flat records, the shape the Socrata Open Data API delivers.
func LoadExtract(path string) (frame.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("failed to read extract: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return frame.Frame{}, fmt.Errorf(
			"failed to parse extract %s: %w", path, err)
	}
	if len(records) == 0 {
		return frame.Frame{}, fmt.Errorf("extract %s holds no records", path)
	}

	return frame.FromRecords(records), nil
}
