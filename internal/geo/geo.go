// Package geo provides the minimal planar geometry needed for MS4
// drainage-area checks: GeoJSON polygon decoding, centroids, and
// point-in-polygon tests.
package geo

// Point is a WGS84 coordinate (longitude, latitude).
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Ring is a closed linear ring of coordinates. The first and last
// points may or may not coincide; Contains handles both encodings.
type Ring []Point

// Polygon is an exterior ring followed by zero or more interior rings
// (holes), matching GeoJSON ring ordering.
type Polygon []Ring

// MultiPolygon is a collection of polygons.
type MultiPolygon []Polygon

// Contains reports whether p lies inside the ring, using the even-odd
// ray casting rule. Points exactly on an edge are not guaranteed to be
// classified consistently; parcel centroids never sit on MS4 borders
// in practice.
func (r Ring) Contains(p Point) bool {
	n := len(r)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := r[i], r[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if p.Lon < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Contains reports whether p is inside the polygon's exterior ring and
// outside all of its holes.
func (pg Polygon) Contains(p Point) bool {
	if len(pg) == 0 || !pg[0].Contains(p) {
		return false
	}
	for _, hole := range pg[1:] {
		if hole.Contains(p) {
			return false
		}
	}
	return true
}

// Contains reports whether p is inside any member polygon.
func (mp MultiPolygon) Contains(p Point) bool {
	for _, pg := range mp {
		if pg.Contains(p) {
			return true
		}
	}
	return false
}

// Centroid returns the area-weighted centroid of the polygon's exterior
// ring. For degenerate rings it falls back to the vertex average.
func (pg Polygon) Centroid() Point {
	if len(pg) == 0 || len(pg[0]) == 0 {
		return Point{}
	}
	ring := pg[0]
	var area, cx, cy float64
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		cross := a.Lon*b.Lat - b.Lon*a.Lat
		area += cross
		cx += (a.Lon + b.Lon) * cross
		cy += (a.Lat + b.Lat) * cross
	}
	if area == 0 {
		var sx, sy float64
		for _, p := range ring {
			sx += p.Lon
			sy += p.Lat
		}
		return Point{Lon: sx / float64(n), Lat: sy / float64(n)}
	}
	area /= 2
	return Point{Lon: cx / (6 * area), Lat: cy / (6 * area)}
}
