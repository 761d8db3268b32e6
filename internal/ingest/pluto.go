// Package ingest reads reference-data exports into store records:
// MapPLUTO parcel CSVs and MS4 drainage-area GeoJSON.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jceal/stormwater-classifier/internal/geo"
	"github.com/jceal/stormwater-classifier/internal/state"
)

// validBoroughCodes are the two-letter codes MapPLUTO uses.
var validBoroughCodes = map[string]bool{
	"MN": true, "BX": true, "BK": true, "QN": true, "SI": true,
}

// ReadPlutoCSV parses a MapPLUTO CSV export. Column matching is
// case-insensitive; rows without an address are skipped.
func ReadPlutoCSV(r io.Reader) ([]state.Parcel, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"address", "borough", "lotarea", "latitude", "longitude"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var parcels []state.Parcel
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		address := field(record, "address")
		if address == "" {
			continue
		}

		borough := strings.ToUpper(field(record, "borough"))
		if !validBoroughCodes[borough] {
			return nil, fmt.Errorf("line %d: unknown borough code %q", line, borough)
		}

		lotArea, err := parseFloat(field(record, "lotarea"))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad lot area: %w", line, err)
		}
		lat, err := parseFloat(field(record, "latitude"))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad latitude: %w", line, err)
		}
		lon, err := parseFloat(field(record, "longitude"))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad longitude: %w", line, err)
		}

		parcels = append(parcels, state.Parcel{
			BoroughCode: borough,
			Address:     address,
			LotAreaSF:   lotArea,
			Centroid:    geo.Point{Lon: lon, Lat: lat},
		})
	}
	return parcels, nil
}

// ReadPlutoFile reads a MapPLUTO CSV from disk.
func ReadPlutoFile(path string) ([]state.Parcel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLUTO export: %w", err)
	}
	defer f.Close()

	parcels, err := ReadPlutoCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parcels, nil
}

// parseFloat tolerates thousands separators and empty values; an empty
// value parses as zero.
func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
