package stations

import (
	"courier-slot-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// LoadGeoJSON reads station Point features from a GeoJSON FeatureCollection.
// Each feature needs a "name" property; "lines" may be an array or a
// comma-separated string, "line" a single identifier.
func LoadGeoJSON(path string) ([]domain.Station, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load stations: read %q: %w", path, err)
	}

	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("load stations: parse geojson: %w", err)
	}

	out := make([]domain.Station, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry.Type != "Point" {
			continue
		}
		if len(f.Geometry.Coordinates) < 2 {
			return nil, fmt.Errorf("load stations: feature #%d: invalid coordinates", i+1)
		}

		name := strings.TrimSpace(stringProp(f.Properties, "name"))
		if name == "" {
			return nil, fmt.Errorf("load stations: feature #%d: missing name", i+1)
		}

		out = append(out, domain.Station{
			Name: name,
			Coords: domain.Coordinates{
				Lon: f.Geometry.Coordinates[0],
				Lat: f.Geometry.Coordinates[1],
			},
			Lines: linesProp(f.Properties),
		})
	}

	return out, nil
}

// Load builds the station index from path, falling back to the built-in
// set when the dataset is missing or has no stations.
func Load(path string, logger zerolog.Logger) (*Index, error) {
	logger = logger.With().Str("component", "stations").Logger()

	if strings.TrimSpace(path) == "" {
		logger.Warn().Msg("no station dataset configured, using built-in stations")
		return NewIndex(Builtin()), nil
	}

	records, err := LoadGeoJSON(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("path", path).Msg("station dataset not found, using built-in stations")
		return NewIndex(Builtin()), nil
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		logger.Warn().Str("path", path).Msg("station dataset is empty, using built-in stations")
		return NewIndex(Builtin()), nil
	}

	idx := NewIndex(records)
	logger.Info().Str("path", path).Int("stations", idx.Len()).Msg("station index loaded")
	return idx, nil
}

func stringProp(props map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := props[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func linesProp(props map[string]any) []string {
	var lines []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			lines = append(lines, s)
		}
	}

	switch v := props["lines"].(type) {
	case []any:
		for _, item := range v {
			switch l := item.(type) {
			case string:
				add(l)
			case float64:
				add(fmt.Sprintf("%g", l))
			}
		}
	case string:
		for _, l := range strings.Split(v, ",") {
			add(l)
		}
	}

	switch l := props["line"].(type) {
	case string:
		add(l)
	case float64:
		add(fmt.Sprintf("%g", l))
	}

	return lines
}
