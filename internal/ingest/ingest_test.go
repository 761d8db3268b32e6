package ingest

import (
	"strings"
	"testing"

	"github.com/jceal/stormwater-classifier/internal/geo"
)

func TestReadPlutoCSV(t *testing.T) {
	csvData := `Address,Borough,LotArea,Latitude,Longitude
460 NEW DORP LANE,SI,"21,780",40.5712,-74.1168
,SI,1000,40.57,-74.11
116 3RD AVENUE,mn,2500,40.7336,-73.9885
`
	parcels, err := ReadPlutoCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(parcels) != 2 {
		t.Fatalf("parcels = %d, want 2 (blank address skipped)", len(parcels))
	}

	first := parcels[0]
	if first.Address != "460 NEW DORP LANE" || first.BoroughCode != "SI" {
		t.Errorf("parcel = %+v", first)
	}
	if first.LotAreaSF != 21780 {
		t.Errorf("lot area = %v, want 21780 (separator stripped)", first.LotAreaSF)
	}
	if first.Centroid.Lat != 40.5712 || first.Centroid.Lon != -74.1168 {
		t.Errorf("centroid = %+v", first.Centroid)
	}

	if parcels[1].BoroughCode != "MN" {
		t.Errorf("borough code should be uppercased, got %q", parcels[1].BoroughCode)
	}
}

func TestReadPlutoCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing column", data: "Address,Borough,LotArea\n"},
		{name: "unknown borough", data: "Address,Borough,LotArea,Latitude,Longitude\n1 Main St,ZZ,100,40,-74\n"},
		{name: "bad lot area", data: "Address,Borough,LotArea,Latitude,Longitude\n1 Main St,SI,abc,40,-74\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPlutoCSV(strings.NewReader(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

const ms4Export = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "Name": "Mill Creek",
        "Floatables": "Yes",
        "Pathogens": "no",
        "Nitrogen": "TRUE",
        "Phosphorus": 0
      },
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-74.2, 40.5], [-74.0, 40.5], [-74.0, 40.6], [-74.2, 40.6], [-74.2, 40.5]]]
      }
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-73.9, 40.7], [-73.8, 40.7], [-73.8, 40.8], [-73.9, 40.8], [-73.9, 40.7]]]
      }
    }
  ]
}`

func TestReadMS4GeoJSON(t *testing.T) {
	areas, err := ReadMS4GeoJSON([]byte(ms4Export))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(areas) != 2 {
		t.Fatalf("areas = %d, want 2", len(areas))
	}

	first := areas[0]
	if first.Name != "Mill Creek" {
		t.Errorf("name = %q", first.Name)
	}
	if !first.Floatables || first.Pathogens || !first.Nitrogen || first.Phosphorus {
		t.Errorf("pollutant flags = %+v", first)
	}
	if !first.Geometry.Polygons.Contains(geo.Point{Lon: -74.1, Lat: 40.55}) {
		t.Error("geometry should contain an interior point")
	}

	if areas[1].Name != "area 2" {
		t.Errorf("unnamed area = %q, want positional fallback", areas[1].Name)
	}
}

func TestReadMS4GeoJSON_RejectsNonAreal(t *testing.T) {
	data := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"Name":"pt"},"geometry":{"type":"Point","coordinates":[-74,40]}}]}`
	if _, err := ReadMS4GeoJSON([]byte(data)); err == nil {
		t.Error("expected error for point geometry")
	}
}
