package geo

import (
	"math"
	"testing"
)

func square(minLon, minLat, maxLon, maxLat float64) Ring {
	return Ring{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
	}
}

func TestRingContains(t *testing.T) {
	ring := square(0, 0, 10, 10)

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{Lon: 5, Lat: 5}, true},
		{"outside right", Point{Lon: 11, Lat: 5}, false},
		{"outside above", Point{Lon: 5, Lat: 11}, false},
		{"near corner inside", Point{Lon: 0.1, Lat: 0.1}, true},
		{"far away", Point{Lon: -40, Lat: 73}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ring.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRingContains_ClosedRing(t *testing.T) {
	// GeoJSON rings repeat the first point; the result must not change.
	open := square(0, 0, 10, 10)
	closed := append(append(Ring{}, open...), open[0])

	p := Point{Lon: 3, Lat: 7}
	if open.Contains(p) != closed.Contains(p) {
		t.Error("open and closed ring encodings disagree")
	}
}

func TestPolygonContains_Hole(t *testing.T) {
	pg := Polygon{
		square(0, 0, 10, 10),
		square(4, 4, 6, 6), // hole
	}

	if !pg.Contains(Point{Lon: 2, Lat: 2}) {
		t.Error("point in exterior should be inside")
	}
	if pg.Contains(Point{Lon: 5, Lat: 5}) {
		t.Error("point in hole should be outside")
	}
}

func TestMultiPolygonContains(t *testing.T) {
	mp := MultiPolygon{
		{square(0, 0, 1, 1)},
		{square(5, 5, 6, 6)},
	}

	if !mp.Contains(Point{Lon: 5.5, Lat: 5.5}) {
		t.Error("point in second polygon should be inside")
	}
	if mp.Contains(Point{Lon: 3, Lat: 3}) {
		t.Error("point between polygons should be outside")
	}
}

func TestPolygonCentroid(t *testing.T) {
	pg := Polygon{square(0, 0, 10, 10)}
	c := pg.Centroid()
	if math.Abs(c.Lon-5) > 1e-9 || math.Abs(c.Lat-5) > 1e-9 {
		t.Errorf("centroid = %v, want (5, 5)", c)
	}
}

func TestDecodeFeatureCollection(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"FLOATABLES": "Yes", "BRANCH": 3},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]
			}
		}]
	}`)

	fc, err := DecodeFeatureCollection(data)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	f := fc.Features[0]
	if f.Properties["FLOATABLES"] != "Yes" {
		t.Errorf("string property lost: %q", f.Properties["FLOATABLES"])
	}
	if f.Properties["BRANCH"] != "3" {
		t.Errorf("numeric property not normalized: %q", f.Properties["BRANCH"])
	}
	if !f.Geometry.Polygons.Contains(Point{Lon: 5, Lat: 5}) {
		t.Error("decoded polygon does not contain interior point")
	}
}

func TestDecodeFeatureCollection_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not a collection", `{"type": "Feature"}`},
		{"bad json", `{`},
		{"unsupported geometry", `{
			"type": "FeatureCollection",
			"features": [{"type": "Feature", "geometry": {"type": "Point", "coordinates": [0,0]}}]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeFeatureCollection([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	g := Geometry{Type: "Polygon", Polygons: MultiPolygon{{square(0, 0, 4, 4)}}}

	data, err := g.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back Geometry
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !back.Polygons.Contains(Point{Lon: 2, Lat: 2}) {
		t.Error("round-tripped geometry lost containment")
	}
}
