package geo

// geojson.go - GeoJSON decoding for MS4 drainage-area exports

import (
	"encoding/json"
	"fmt"
)

// FeatureCollection is the top level of a GeoJSON export.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature with its source attributes.
type Feature struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"-"`
	Geometry   Geometry          `json:"geometry"`

	// RawProperties preserves the original property values; exports mix
	// strings and numbers so they are normalized in UnmarshalJSON.
	RawProperties map[string]json.RawMessage `json:"properties"`
}

// UnmarshalJSON decodes a feature and normalizes all property values to
// strings.
func (f *Feature) UnmarshalJSON(data []byte) error {
	type alias Feature
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*f = Feature(a)
	f.Properties = make(map[string]string, len(f.RawProperties))
	for k, raw := range f.RawProperties {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			f.Properties[k] = s
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err == nil && v != nil {
			f.Properties[k] = fmt.Sprint(v)
		}
	}
	f.RawProperties = nil
	return nil
}

// Geometry holds a decoded Polygon or MultiPolygon. Other GeoJSON
// geometry types are rejected since drainage areas are always areal.
type Geometry struct {
	Type     string `json:"type"`
	Polygons MultiPolygon
}

// UnmarshalJSON decodes the geometry coordinates into Polygons.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	g.Type = head.Type

	switch head.Type {
	case "Polygon":
		var coords [][][2]float64
		if err := json.Unmarshal(head.Coordinates, &coords); err != nil {
			return fmt.Errorf("invalid Polygon coordinates: %w", err)
		}
		g.Polygons = MultiPolygon{ringsToPolygon(coords)}
	case "MultiPolygon":
		var coords [][][][2]float64
		if err := json.Unmarshal(head.Coordinates, &coords); err != nil {
			return fmt.Errorf("invalid MultiPolygon coordinates: %w", err)
		}
		for _, rings := range coords {
			g.Polygons = append(g.Polygons, ringsToPolygon(rings))
		}
	default:
		return fmt.Errorf("unsupported geometry type: %q", head.Type)
	}
	return nil
}

// MarshalJSON encodes the geometry back to GeoJSON. Single-polygon
// geometries round-trip as Polygon.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if len(g.Polygons) == 1 && g.Type != "MultiPolygon" {
		return json.Marshal(struct {
			Type        string         `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		}{"Polygon", polygonToRings(g.Polygons[0])})
	}
	coords := make([][][][2]float64, 0, len(g.Polygons))
	for _, pg := range g.Polygons {
		coords = append(coords, polygonToRings(pg))
	}
	return json.Marshal(struct {
		Type        string           `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}{"MultiPolygon", coords})
}

func ringsToPolygon(rings [][][2]float64) Polygon {
	pg := make(Polygon, 0, len(rings))
	for _, ring := range rings {
		r := make(Ring, 0, len(ring))
		for _, c := range ring {
			r = append(r, Point{Lon: c[0], Lat: c[1]})
		}
		pg = append(pg, r)
	}
	return pg
}

func polygonToRings(pg Polygon) [][][2]float64 {
	rings := make([][][2]float64, 0, len(pg))
	for _, r := range pg {
		ring := make([][2]float64, 0, len(r))
		for _, p := range r {
			ring = append(ring, [2]float64{p.Lon, p.Lat})
		}
		rings = append(rings, ring)
	}
	return rings
}

// DecodeFeatureCollection parses a GeoJSON FeatureCollection document.
func DecodeFeatureCollection(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}
	return &fc, nil
}
