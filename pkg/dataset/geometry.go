package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/nycfoodgap/foodgap/pkg/frame"
)

// SRID is the spatial reference every stored geometry is tagged with
// (WGS84 longitude/latitude).
const SRID = 4326

// GeometryToWKT converts a GeoJSON geometry payload into an EWKT string
// tagged with SRID 4326, e.g. "SRID=4326;MULTIPOLYGON(...)". The payload
// may be a parsed GeoJSON structure (map) or serialized JSON text.
func GeometryToWKT(geomData any) (string, error) {
	if geomData == nil {
		return "", fmt.Errorf("empty geometry")
	}

	var raw []byte
	switch g := geomData.(type) {
	case string:
		if g == "" {
			return "", fmt.Errorf("empty geometry")
		}
		raw = []byte(g)
	case []byte:
		if len(g) == 0 {
			return "", fmt.Errorf("empty geometry")
		}
		raw = g
	default:
		var err error
		raw, err = json.Marshal(g)
		if err != nil {
			return "", fmt.Errorf("failed to serialize geometry: %w", err)
		}
	}

	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse geometry: %w", err)
	}

	return fmt.Sprintf("SRID=%d;%s", SRID, wkt.MarshalString(geom.Geometry())), nil
}

// ConvertGeometry converts the named geometry column to EWKT. A row whose
// payload is malformed or empty gets nil and a warning; the batch is never
// aborted. Frames without the column pass through unchanged.
func ConvertGeometry(f frame.Frame, col, datasetID string) frame.Frame {
	return f.Apply(col, func(v any) any {
		if v == nil {
			return nil
		}
		w, err := GeometryToWKT(v)
		if err != nil {
			slog.Warn("Failed to convert geometry",
				"dataset", datasetID, "error", err)
			return nil
		}
		return w
	})
}
