package stations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-99.1332, 19.4326]},
     "properties": {"name": "Zócalo / Tenochtitlan", "lines": ["2"]}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-99.1490, 19.4274]},
     "properties": {"name": "Balderas", "lines": "1, 3"}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-99.1491, 19.4275]},
     "properties": {"name": "Balderas", "line": 3}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
     "properties": {"name": "Línea 1"}}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadGeoJSON(t *testing.T) {
	path := writeFile(t, "stations.geojson", sampleGeoJSON)

	records, err := LoadGeoJSON(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3 (non-point features skipped)", len(records))
	}
	if records[0].Coords.Lat != 19.4326 || records[0].Coords.Lon != -99.1332 {
		t.Fatalf("coordinates not read as [lon, lat]: %+v", records[0].Coords)
	}
	if len(records[1].Lines) != 2 || records[1].Lines[1] != "3" {
		t.Fatalf("comma separated lines = %v", records[1].Lines)
	}

	idx := NewIndex(records)
	st, ok := idx.Lookup("balderas")
	if !ok {
		t.Fatal("balderas should resolve")
	}
	if len(st.Lines) != 2 {
		t.Fatalf("merged lines = %v, want [1 3]", st.Lines)
	}
}

func TestLoadGeoJSONRejectsMissingName(t *testing.T) {
	path := writeFile(t, "bad.geojson", `{"features":[{"geometry":{"type":"Point","coordinates":[1,2]},"properties":{}}]}`)
	if _, err := LoadGeoJSON(path); err == nil {
		t.Fatal("expected error for feature without name")
	}
}

func TestLoadFallsBackToBuiltin(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "missing.geojson"), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Len() != len(Builtin()) {
		t.Fatalf("Len = %d, want built-in size %d", idx.Len(), len(Builtin()))
	}
	if _, ok := idx.Lookup("Pino Suárez"); !ok {
		t.Fatal("built-in set should contain Pino Suárez")
	}

	empty := writeFile(t, "empty.geojson", `{"type":"FeatureCollection","features":[]}`)
	idx, err = Load(empty, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Len() != len(Builtin()) {
		t.Fatal("empty dataset should fall back to built-in stations")
	}
}

func TestLoadRejectsMalformedDataset(t *testing.T) {
	path := writeFile(t, "broken.geojson", `{"features": [`)
	if _, err := Load(path, zerolog.Nop()); err == nil {
		t.Fatal("expected parse error")
	}
}
