// dataset.go - labelled evaluation dataset loading from CSV.

package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FinalLabels lists the permit determination labels in report order.
var FinalLabels = []string{"ESC", "WQ", "RR", "Vv", "NNI"}

// IntermediateLabels lists the derived rule inputs in report order.
var IntermediateLabels = []string{
	"disturb_20000_sf",
	"new_imp",
	"new_imp_5000_sf",
	"table_2_2_activity",
	"in_ms4",
}

// Row is one labelled project description.
type Row struct {
	Description   string
	Finals        map[string]bool
	Intermediates map[string]bool
}

// ParseBool interprets the boolean spellings that appear in labelled
// datasets. Empty and "none" count as false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n", "", "none":
		return false, nil
	}
	// Numeric spellings like "1.0" survive spreadsheet round trips.
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v != 0, nil
	}
	return false, fmt.Errorf("cannot interpret boolean value %q", s)
}

// parseNNI interprets the NNI ground-truth column, which stores either
// a boolean or a list of pollutants of concern. Any non-empty value
// other than the false spellings means the review applies.
func parseNNI(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "", "none", "na":
		return false
	}
	return true
}

// ReadDataset loads a labelled CSV dataset. The header must name a
// description column plus every final and intermediate label.
func ReadDataset(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	rows, err := readDatasetCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return rows, nil
}

func readDatasetCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["description"]; !ok {
		return nil, fmt.Errorf("missing required column %q", "description")
	}
	for _, lbl := range FinalLabels {
		if _, ok := cols[lbl]; !ok {
			return nil, fmt.Errorf("missing label column %q", lbl)
		}
	}
	for _, lbl := range IntermediateLabels {
		if _, ok := cols[lbl]; !ok {
			return nil, fmt.Errorf("missing label column %q", lbl)
		}
	}

	field := func(record []string, i int) string {
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []Row
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

		row := Row{
			Description:   field(record, cols["description"]),
			Finals:        make(map[string]bool, len(FinalLabels)),
			Intermediates: make(map[string]bool, len(IntermediateLabels)),
		}
		for _, lbl := range FinalLabels {
			raw := field(record, cols[lbl])
			if lbl == "NNI" {
				row.Finals[lbl] = parseNNI(raw)
				continue
			}
			v, err := ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, lbl, err)
			}
			row.Finals[lbl] = v
		}
		for _, lbl := range IntermediateLabels {
			v, err := ParseBool(field(record, cols[lbl]))
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, lbl, err)
			}
			row.Intermediates[lbl] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
