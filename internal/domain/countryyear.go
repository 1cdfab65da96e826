package domain

import (
	"cmp"
	"slices"
)

type countryYearKey struct {
	country string
	year    int
}

type countryYearAccumulator struct {
	total float64
	count int
	types []string
}

// AggregateCountryYears totals events per (country, year). Events without a
// country are left out, as the grouping has no key for them. The result is
// ordered by country, then year.
func AggregateCountryYears(events []DisasterEvent, join TypeJoin) []CountryYearAggregate {
	groups := make(map[countryYearKey]*countryYearAccumulator)
	for _, e := range events {
		if e.Country == "" {
			continue
		}
		key := countryYearKey{country: e.Country, year: e.Year}
		acc, ok := groups[key]
		if !ok {
			acc = &countryYearAccumulator{}
			groups[key] = acc
		}
		acc.total += e.Level
		acc.count++
		acc.types = append(acc.types, e.DisasterType)
	}

	out := make([]CountryYearAggregate, 0, len(groups))
	for key, acc := range groups {
		out = append(out, CountryYearAggregate{
			Country:       key.country,
			Year:          key.year,
			TotalLevel:    acc.total,
			NumDisasters:  acc.count,
			DisasterTypes: join.Join(acc.types),
		})
	}
	sortCountryYears(out)
	return out
}

func sortCountryYears(aggs []CountryYearAggregate) {
	slices.SortFunc(aggs, func(a, b CountryYearAggregate) int {
		return cmp.Or(cmp.Compare(a.Country, b.Country), cmp.Compare(a.Year, b.Year))
	})
}
