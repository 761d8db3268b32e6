package state

// sqlite_records.go - imported PLUTO parcels and MS4 drainage areas

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jceal/stormwater-classifier/internal/geo"
)

// ReplaceParcels replaces all parcel records in a single transaction
// and returns the number of rows inserted.
func (s *SQLiteStore) ReplaceParcels(parcels []Parcel) (int, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM parcels`); err != nil {
		return 0, fmt.Errorf("failed to clear parcels: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO parcels (borough_code, address, lot_area_sf, centroid_lon, centroid_lat)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range parcels {
		if _, err := stmt.Exec(p.BoroughCode, p.Address, p.LotAreaSF, p.Centroid.Lon, p.Centroid.Lat); err != nil {
			return 0, fmt.Errorf("failed to insert parcel %q: %w", p.Address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit parcels: %w", err)
	}
	return len(parcels), nil
}

// ReplaceMS4Areas replaces all MS4 drainage areas in a single
// transaction and returns the number of rows inserted.
func (s *SQLiteStore) ReplaceMS4Areas(areas []MS4Area) (int, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM ms4_areas`); err != nil {
		return 0, fmt.Errorf("failed to clear ms4 areas: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO ms4_areas (name, floatables, pathogens, nitrogen, phosphorus, geometry)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range areas {
		geom, err := json.Marshal(a.Geometry)
		if err != nil {
			return 0, fmt.Errorf("failed to encode geometry for %q: %w", a.Name, err)
		}
		if _, err := stmt.Exec(a.Name, a.Floatables, a.Pathogens, a.Nitrogen, a.Phosphorus, string(geom)); err != nil {
			return 0, fmt.Errorf("failed to insert ms4 area %q: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ms4 areas: %w", err)
	}
	return len(areas), nil
}

// FindParcel returns the first parcel in the borough whose address
// contains the given address, case-insensitively. Returns nil when no
// parcel matches.
func (s *SQLiteStore) FindParcel(boroughCode, address string) (*Parcel, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(
		`SELECT id, borough_code, address, lot_area_sf, centroid_lon, centroid_lat
		 FROM parcels
		 WHERE borough_code = ? AND address LIKE '%' || ? || '%'
		 ORDER BY id LIMIT 1`,
		boroughCode, address,
	)
	return scanParcel(row)
}

// ParcelByExactAddress returns the parcel with the exact address in
// the borough, or nil when none exists.
func (s *SQLiteStore) ParcelByExactAddress(boroughCode, address string) (*Parcel, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(
		`SELECT id, borough_code, address, lot_area_sf, centroid_lon, centroid_lat
		 FROM parcels
		 WHERE borough_code = ? AND address = ?
		 ORDER BY id LIMIT 1`,
		boroughCode, address,
	)
	return scanParcel(row)
}

// ParcelAddresses lists all addresses in a borough, for fuzzy matching.
func (s *SQLiteStore) ParcelAddresses(boroughCode string) ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT address FROM parcels WHERE borough_code = ? ORDER BY id`, boroughCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var addresses []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, addr)
	}
	return addresses, rows.Err()
}

// MS4Areas returns all imported drainage areas with decoded geometry.
func (s *SQLiteStore) MS4Areas() ([]MS4Area, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT id, name, floatables, pathogens, nitrogen, phosphorus, geometry FROM ms4_areas ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ms4 areas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var areas []MS4Area
	for rows.Next() {
		var a MS4Area
		var geom string
		if err := rows.Scan(&a.ID, &a.Name, &a.Floatables, &a.Pathogens, &a.Nitrogen, &a.Phosphorus, &geom); err != nil {
			return nil, fmt.Errorf("failed to scan ms4 area: %w", err)
		}
		var g geo.Geometry
		if err := json.Unmarshal([]byte(geom), &g); err != nil {
			return nil, fmt.Errorf("failed to decode geometry for area %d: %w", a.ID, err)
		}
		a.Geometry = g
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// CountParcels returns the number of imported parcel records.
func (s *SQLiteStore) CountParcels() (int, error) {
	return s.countRows("parcels")
}

// CountMS4Areas returns the number of imported drainage areas.
func (s *SQLiteStore) CountMS4Areas() (int, error) {
	return s.countRows("ms4_areas")
}

func (s *SQLiteStore) countRows(table string) (int, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func scanParcel(row *sql.Row) (*Parcel, error) {
	var p Parcel
	err := row.Scan(&p.ID, &p.BoroughCode, &p.Address, &p.LotAreaSF, &p.Centroid.Lon, &p.Centroid.Lat)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan parcel: %w", err)
	}
	return &p, nil
}
