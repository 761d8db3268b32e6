// ms4.go - MS4 drainage-area GeoJSON ingestion

package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/jceal/stormwater-classifier/internal/geo"
	"github.com/jceal/stormwater-classifier/internal/state"
)

// ReadMS4GeoJSON parses an MS4 drainage-area GeoJSON export. Pollutant
// flags come from the floatables/pathogens/nitrogen/phosphorus feature
// properties; property matching is case-insensitive.
func ReadMS4GeoJSON(data []byte) ([]state.MS4Area, error) {
	fc, err := geo.DecodeFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	areas := make([]state.MS4Area, 0, len(fc.Features))
	for i, feature := range fc.Features {
		props := lowerKeys(feature.Properties)

		name := props["name"]
		if name == "" {
			name = props["ms4_name"]
		}
		if name == "" {
			name = fmt.Sprintf("area %d", i+1)
		}

		if len(feature.Geometry.Polygons) == 0 {
			return nil, fmt.Errorf("feature %q has no polygon geometry", name)
		}

		areas = append(areas, state.MS4Area{
			Name:       name,
			Floatables: truthy(props["floatables"]),
			Pathogens:  truthy(props["pathogens"]),
			Nitrogen:   truthy(props["nitrogen"]),
			Phosphorus: truthy(props["phosphorus"]),
			Geometry:   feature.Geometry,
		})
	}
	return areas, nil
}

// ReadMS4File reads an MS4 GeoJSON export from disk.
func ReadMS4File(path string) ([]state.MS4Area, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MS4 export: %w", err)
	}
	areas, err := ReadMS4GeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return areas, nil
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// truthy interprets the boolean spellings that appear in GIS exports.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "t":
		return true
	}
	return false
}
