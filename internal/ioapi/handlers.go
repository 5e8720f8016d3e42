package ioapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// foodGapsQuery joins neighborhood geometry to the latest year's supply
// gap metrics and aggregates the whole result into one GeoJSON
// FeatureCollection server-side. ST_AsGeoJSON renders each geometry,
// json_build_object shapes each Feature, json_agg collects them.
const foodGapsQuery = `
	SELECT json_build_object(
		'type', 'FeatureCollection',
		'features', json_agg(
			json_build_object(
				'type', 'Feature',
				'geometry', ST_AsGeoJSON(n.geom)::json,
				'properties', json_build_object(
					'nta_code', n.nta2020,
					'nta_name', n.nta_name,
					'boro_name', n.boro_name,
					'supply_gap_lbs', f.supply_gap_lbs,
					'food_insecure_pct', f.food_insecure_pct,
					'vulnerable_pop_score', f.vulnerable_pop_score,
					'unemployment_rate', f.unemployment_rate
				)
			)
		)
	)::text AS geojson
	FROM ntas_2020 n
	JOIN food_supply_gaps f ON n.nta2020 = f.nta_code
	WHERE f.year = (SELECT MAX(year) FROM food_supply_gaps)
`

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK,
		map[string]string{"message": "NYC Food Gap Visualization API"})
}

// handleFoodGaps serves the food-supply-gap FeatureCollection. A storage
// is opened per request and always released, including on error paths.
func (s *Server) handleFoodGaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	st, err := s.newStorage(ctx)
	if err != nil {
		slog.Error("Error opening storage for food gaps", "error", err)
		writeError(w, err)
		return
	}
	defer st.Close()

	value, err := st.QueryScalar(ctx, foodGapsQuery)
	if err != nil {
		slog.Error("Error fetching food gaps", "error", err)
		writeError(w, err)
		return
	}

	doc, ok := value.(string)
	if !ok || doc == "" {
		// No data yet: an empty but valid FeatureCollection.
		doc = `{"type": "FeatureCollection", "features": null}`
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError,
		map[string]string{"detail": err.Error()})
}
