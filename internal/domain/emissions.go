package domain

// ParseEmissions projects the emissions table onto EmissionRow values. Rows
// with an unparseable year or emission value are skipped and counted; they
// could never join a country-year anyway.
func ParseEmissions(t Table) (rows []EmissionRow, skipped int, err error) {
	idx, err := columnIndex(t.Source, t.Header, emissionColumns)
	if err != nil {
		return nil, 0, err
	}
	rows = make([]EmissionRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		year, yerr := parseYear(cell(r, idx["year"]))
		raw, rerr := parseFloat(cell(r, idx["annual co2 emissions"]))
		if yerr != nil || rerr != nil {
			skipped++
			continue
		}
		rows = append(rows, EmissionRow{
			Country: cell(r, idx["entity"]),
			Year:    year,
			Raw:     raw,
		})
	}
	return rows, skipped, nil
}

// DedupeEmissions keeps the first row of every (country, year) pair and
// returns how many later rows were dropped. Input order is preserved.
func DedupeEmissions(rows []EmissionRow) (kept []EmissionRow, dropped int) {
	type countryYear struct {
		country string
		year    int
	}
	seen := make(map[countryYear]bool, len(rows))
	kept = make([]EmissionRow, 0, len(rows))
	for _, r := range rows {
		k := countryYear{r.Country, r.Year}
		if seen[k] {
			dropped++
			continue
		}
		seen[k] = true
		kept = append(kept, r)
	}
	return kept, dropped
}

// NormalizeEmissions scales each raw value by the maximum raw value of its
// year. A year whose maximum is not positive normalizes to 0 for every row
// instead of dividing by zero. Repeated country-years are dropped first, so
// each country carries one point per year in input order.
func NormalizeEmissions(rows []EmissionRow) NormalizedEmissions {
	rows, _ = DedupeEmissions(rows)
	yearMax := make(map[int]float64)
	seen := make(map[int]bool)
	for _, r := range rows {
		if !seen[r.Year] || r.Raw > yearMax[r.Year] {
			yearMax[r.Year] = r.Raw
			seen[r.Year] = true
		}
	}

	out := make(NormalizedEmissions)
	for _, r := range rows {
		out[r.Country] = append(out[r.Country], EmissionPoint{
			Year:  r.Year,
			Value: normalize(r.Raw, yearMax[r.Year]),
			Raw:   r.Raw,
		})
	}
	return out
}

// DegenerateYears returns how many year groups have a non-positive maximum.
func DegenerateYears(rows []EmissionRow) int {
	positive := make(map[int]bool)
	for _, r := range rows {
		if r.Raw > 0 {
			positive[r.Year] = true
		} else if _, ok := positive[r.Year]; !ok {
			positive[r.Year] = false
		}
	}
	n := 0
	for _, ok := range positive {
		if !ok {
			n++
		}
	}
	return n
}

func normalize(raw, peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	return raw / peak
}

// EmissionsIndex answers raw-emission lookups by country then year in O(1).
// It is read-only once built.
type EmissionsIndex struct {
	byCountry  map[string]map[int]float64
	duplicates int
}

// NewEmissionsIndex indexes normalized emissions. When a country-year occurs
// more than once the first occurrence wins, the same answer a front-to-back
// scan of the series gives.
func NewEmissionsIndex(series NormalizedEmissions) *EmissionsIndex {
	idx := &EmissionsIndex{byCountry: make(map[string]map[int]float64, len(series))}
	for country, points := range series {
		years := make(map[int]float64, len(points))
		for _, p := range points {
			if _, ok := years[p.Year]; ok {
				idx.duplicates++
				continue
			}
			years[p.Year] = p.Raw
		}
		idx.byCountry[country] = years
	}
	return idx
}

// Lookup returns the raw emissions of country in year. Absent entries report
// (0, false); callers treat them as "no emissions data".
func (i *EmissionsIndex) Lookup(country string, year int) (float64, bool) {
	years, ok := i.byCountry[country]
	if !ok {
		return 0, false
	}
	raw, ok := years[year]
	return raw, ok
}

// Duplicates returns how many repeated country-year entries were ignored.
func (i *EmissionsIndex) Duplicates() int {
	return i.duplicates
}
