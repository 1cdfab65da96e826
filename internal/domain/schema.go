package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// disasterColumns are the canonical columns every disaster source must carry.
var disasterColumns = []string{"year", "level", "disastertype", "latitude", "longitude", "country"}

// emissionColumns are required in the emissions table. Extra columns are ignored.
var emissionColumns = []string{"entity", "year", "annual co2 emissions"}

// columnIndex resolves required column names to positions in header.
// Matching ignores surrounding whitespace, case, a leading BOM and the
// subscript spelling of CO₂.
func columnIndex(source string, header []string, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeColumn(name)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		i, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = i
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Source: source, Missing: missing}
	}
	return index, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ReplaceAll(name, "₂", "2")
	return strings.ToLower(strings.TrimSpace(name))
}

// cell returns row[i], or "" when the row is shorter than the header.
// XLSX readers drop trailing empty cells, so short rows are expected.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// parseOptionalFloat reports ok=false for a blank cell. Anything else must
// parse as a finite number.
func parseOptionalFloat(s string) (v float64, ok bool, err error) {
	if strings.TrimSpace(s) == "" {
		return 0, false, nil
	}
	v, err = parseFloat(s)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// parseYear accepts "2004" as well as spreadsheet-style "2004.0".
func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return y, nil
	}
	v, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("fractional year %q", s)
	}
	return int(v), nil
}
