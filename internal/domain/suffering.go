package domain

import (
	"fmt"
	"strings"
)

// DefaultEmissionsScale converts tonnes of CO₂ to gigatonnes in the
// cumulative suffering index denominator.
const DefaultEmissionsScale = 1e9

// SufferingMode selects how the suffering index is derived.
type SufferingMode string

const (
	// ModeCumulative relates running disaster level to running emissions.
	ModeCumulative SufferingMode = "cumulative"
	// ModePointwise reports the year's total level when it has any emissions.
	ModePointwise SufferingMode = "pointwise"
)

// ParseSufferingMode validates a configured mode name.
func ParseSufferingMode(s string) (SufferingMode, error) {
	switch SufferingMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCumulative:
		return ModeCumulative, nil
	case ModePointwise:
		return ModePointwise, nil
	default:
		return "", fmt.Errorf("unknown suffering mode %q (want %q or %q)", s, ModeCumulative, ModePointwise)
	}
}

// SufferingOptions configures CalculateSuffering.
type SufferingOptions struct {
	Mode           SufferingMode
	EmissionsScale float64
}

// SufferingReport is the calculator output.
type SufferingReport struct {
	Rows []SufferingRow
	// LookupMisses counts country-years with no emissions entry; they were joined as 0.
	LookupMisses int
}

// CalculateSuffering joins aggregates with raw emissions and derives the
// suffering index. Rows come back ordered by country, then year.
func CalculateSuffering(aggs []CountryYearAggregate, index *EmissionsIndex, opts SufferingOptions) SufferingReport {
	if opts.EmissionsScale <= 0 {
		opts.EmissionsScale = DefaultEmissionsScale
	}

	sorted := make([]CountryYearAggregate, len(aggs))
	copy(sorted, aggs)
	sortCountryYears(sorted)

	report := SufferingReport{Rows: make([]SufferingRow, 0, len(sorted))}
	for _, agg := range sorted {
		emissions, ok := index.Lookup(agg.Country, agg.Year)
		if !ok {
			report.LookupMisses++
		}
		report.Rows = append(report.Rows, SufferingRow{CountryYearAggregate: agg, Emissions: emissions})
	}

	if opts.Mode == ModePointwise {
		for i := range report.Rows {
			report.Rows[i].SufferingIndex = pointwiseIndex(report.Rows[i])
		}
		return report
	}

	// Rows are contiguous per country after sorting; fold each run separately.
	for start := 0; start < len(report.Rows); {
		end := start + 1
		for end < len(report.Rows) && report.Rows[end].Country == report.Rows[start].Country {
			end++
		}
		foldCumulative(report.Rows[start:end], opts.EmissionsScale)
		start = end
	}
	return report
}

func pointwiseIndex(row SufferingRow) float64 {
	if row.Emissions > 0 {
		return row.TotalLevel
	}
	return 0
}

// foldCumulative carries running totals across one country's rows, which
// must already be in ascending year order. The accumulator starts at zero for
// every country.
func foldCumulative(rows []SufferingRow, scale float64) {
	var acc Cumulative
	for i := range rows {
		acc.CumDisasters += rows[i].NumDisasters
		acc.CumLevel += rows[i].TotalLevel
		acc.CumEmissions += rows[i].Emissions

		snapshot := acc
		rows[i].Cumulative = &snapshot
		rows[i].SufferingIndex = cumulativeIndex(acc, scale)
	}
}

func cumulativeIndex(acc Cumulative, scale float64) float64 {
	if acc.CumEmissions > 0 {
		return acc.CumLevel / (acc.CumEmissions / scale)
	}
	return 0
}
