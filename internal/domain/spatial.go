package domain

import (
	"cmp"
	"math"
	"slices"
)

// minBinLevel is exclusive: only events with Level > minBinLevel are binned.
const minBinLevel = 1

type binKey struct {
	year     int
	lat, lon float64
}

type binAccumulator struct {
	first DisasterEvent
	total float64
	types []string
}

// RoundBin rounds a coordinate to two decimals, half-to-even on v*100.
func RoundBin(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// AggregateBins groups events with Level > 1 by year and rounded coordinates.
// Events without coordinates are left out.
// The first event seen in a bin supplies its country and exact coordinates.
// Bins are returned in ascending (year, lat, lon) order.
func AggregateBins(events []DisasterEvent, join TypeJoin) []GeoBinAggregate {
	bins := make(map[binKey]*binAccumulator)
	for _, e := range events {
		if e.Level <= minBinLevel || e.MissingCoords {
			continue
		}
		key := binKey{year: e.Year, lat: RoundBin(e.Latitude), lon: RoundBin(e.Longitude)}
		acc, ok := bins[key]
		if !ok {
			acc = &binAccumulator{first: e}
			bins[key] = acc
		}
		acc.total += e.Level
		acc.types = append(acc.types, e.DisasterType)
	}

	out := make([]GeoBinAggregate, 0, len(bins))
	for key, acc := range bins {
		out = append(out, GeoBinAggregate{
			Year:          key.year,
			LatBin:        key.lat,
			LonBin:        key.lon,
			Country:       acc.first.Country,
			TotalLevel:    acc.total,
			DisasterTypes: join.Join(acc.types),
			Latitude:      acc.first.Latitude,
			Longitude:     acc.first.Longitude,
		})
	}
	slices.SortFunc(out, func(a, b GeoBinAggregate) int {
		return cmp.Or(
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(a.LatBin, b.LatBin),
			cmp.Compare(a.LonBin, b.LonBin),
		)
	})
	return out
}

// BinsAsEvents turns each bin back into a single event at its first member's
// coordinates. Re-aggregating the result yields the same bins.
func BinsAsEvents(bins []GeoBinAggregate) []DisasterEvent {
	events := make([]DisasterEvent, len(bins))
	for i, b := range bins {
		events[i] = DisasterEvent{
			Year:         b.Year,
			Level:        b.TotalLevel,
			DisasterType: b.DisasterTypes,
			Latitude:     b.Latitude,
			Longitude:    b.Longitude,
			Country:      b.Country,
		}
	}
	return events
}
