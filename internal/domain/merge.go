package domain

import "fmt"

// MergeResult is the union of all disaster sources in source order.
type MergeResult struct {
	Events []DisasterEvent
	// Skipped counts rows per source whose numeric cells could not be parsed.
	Skipped map[string]int
}

// MergeDisasters projects each table onto the canonical DisasterEvent shape
// and concatenates them, first table first. No deduplication happens. A table
// missing any canonical column fails the whole merge with *SchemaMismatchError.
func MergeDisasters(tables ...Table) (MergeResult, error) {
	result := MergeResult{Skipped: make(map[string]int, len(tables))}

	// Validate every schema before projecting any rows.
	indexes := make([]map[string]int, len(tables))
	for i, t := range tables {
		idx, err := columnIndex(t.Source, t.Header, disasterColumns)
		if err != nil {
			return MergeResult{}, err
		}
		indexes[i] = idx
	}

	for i, t := range tables {
		events, skipped := projectDisasters(t, indexes[i])
		result.Events = append(result.Events, events...)
		result.Skipped[t.Source] = skipped
	}
	return result, nil
}

func projectDisasters(t Table, idx map[string]int) ([]DisasterEvent, int) {
	events := make([]DisasterEvent, 0, len(t.Rows))
	skipped := 0
	for _, row := range t.Rows {
		event, err := parseDisasterRow(row, idx)
		if err != nil {
			skipped++
			continue
		}
		events = append(events, event)
	}
	return events, skipped
}

func parseDisasterRow(row []string, idx map[string]int) (DisasterEvent, error) {
	year, err := parseYear(cell(row, idx["year"]))
	if err != nil {
		return DisasterEvent{}, fmt.Errorf("year: %w", err)
	}
	level, err := parseFloat(cell(row, idx["level"]))
	if err != nil {
		return DisasterEvent{}, fmt.Errorf("level: %w", err)
	}
	lat, latOK, err := parseOptionalFloat(cell(row, idx["latitude"]))
	if err != nil {
		return DisasterEvent{}, fmt.Errorf("latitude: %w", err)
	}
	lon, lonOK, err := parseOptionalFloat(cell(row, idx["longitude"]))
	if err != nil {
		return DisasterEvent{}, fmt.Errorf("longitude: %w", err)
	}
	return DisasterEvent{
		Year:          year,
		Level:         level,
		DisasterType:  cell(row, idx["disastertype"]),
		Latitude:      lat,
		Longitude:     lon,
		Country:       cell(row, idx["country"]),
		MissingCoords: !latOK || !lonOK,
	}, nil
}
