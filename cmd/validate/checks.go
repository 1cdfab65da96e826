package main

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
)

const tolerance = 1e-9

func validateEmissions(series domain.NormalizedEmissions) *phase {
	p := &phase{name: "normalized emissions"}

	yearMax := make(map[int]float64)
	for country, points := range series {
		seen := make(map[int]bool, len(points))
		for _, pt := range points {
			if pt.Value < 0 || pt.Value > 1+tolerance {
				p.errorf("%s %d: value %g outside [0, 1]", country, pt.Year, pt.Value)
			}
			if seen[pt.Year] {
				p.errorf("%s %d: duplicate year", country, pt.Year)
			}
			seen[pt.Year] = true
			yearMax[pt.Year] = max(yearMax[pt.Year], pt.Value)
		}
	}
	for year, peak := range yearMax {
		if peak != 0 && math.Abs(peak-1) > tolerance {
			p.errorf("year %d: maximum normalized value %g, want 1", year, peak)
		}
	}
	return p
}

func validateBins(bins []domain.GeoBinAggregate) *phase {
	p := &phase{name: "aggregated disaster bins"}

	type key struct {
		year     int
		lat, lon float64
	}
	seen := make(map[key]bool, len(bins))
	for i, b := range bins {
		k := key{b.Year, b.LatBin, b.LonBin}
		if seen[k] {
			p.errorf("bin %d|%.2f|%.2f appears twice", b.Year, b.LatBin, b.LonBin)
		}
		seen[k] = true

		if b.TotalLevel <= 1 {
			p.errorf("bin %d|%.2f|%.2f: level %g not above 1", b.Year, b.LatBin, b.LonBin, b.TotalLevel)
		}
		if domain.RoundBin(b.Latitude) != b.LatBin || domain.RoundBin(b.Longitude) != b.LonBin {
			p.errorf("bin %d|%.2f|%.2f: representative (%g, %g) rounds elsewhere", b.Year, b.LatBin, b.LonBin, b.Latitude, b.Longitude)
		}
		if i > 0 && !binLess(bins[i-1], b) {
			p.errorf("bin %d out of (year, lat, lon) order", i)
		}
	}
	return p
}

func binLess(a, b domain.GeoBinAggregate) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.LatBin != b.LatBin {
		return a.LatBin < b.LatBin
	}
	return a.LonBin < b.LonBin
}

func validateSuffering(rows []domain.SufferingRow, opts domain.SufferingOptions) *phase {
	p := &phase{name: "suffering index (" + string(opts.Mode) + ")"}

	var running domain.Cumulative
	for i, row := range rows {
		newCountry := i == 0 || rows[i-1].Country != row.Country
		if !newCountry && rows[i-1].Year >= row.Year {
			p.errorf("%s: year %d does not follow %d", row.Country, row.Year, rows[i-1].Year)
		}
		if i > 0 && rows[i-1].Country > row.Country {
			p.errorf("row %d: country %q out of order", i, row.Country)
		}

		if opts.Mode == domain.ModePointwise {
			if row.Cumulative != nil {
				p.errorf("%s %d: pointwise row carries cumulative fields", row.Country, row.Year)
			}
			want := 0.0
			if row.Emissions > 0 {
				want = row.TotalLevel
			}
			if row.SufferingIndex != want {
				p.errorf("%s %d: index %g, want %g", row.Country, row.Year, row.SufferingIndex, want)
			}
			continue
		}

		if row.Cumulative == nil {
			p.errorf("%s %d: missing cumulative fields", row.Country, row.Year)
			continue
		}
		if newCountry {
			running = domain.Cumulative{}
		}
		running.CumDisasters += row.NumDisasters
		running.CumLevel += row.TotalLevel
		running.CumEmissions += row.Emissions
		if !near(running.CumLevel, row.CumLevel) || running.CumDisasters != row.CumDisasters || !near(running.CumEmissions, row.CumEmissions) {
			p.errorf("%s %d: running totals %+v, want %+v", row.Country, row.Year, *row.Cumulative, running)
		}

		want := 0.0
		if row.CumEmissions > 0 {
			want = row.CumLevel / (row.CumEmissions / opts.EmissionsScale)
		}
		if !near(row.SufferingIndex, want) {
			p.errorf("%s %d: index %g, want %g", row.Country, row.Year, row.SufferingIndex, want)
		}
	}
	return p
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// validateCentroids matches centroids to features by name in order. A vertex
// mean always lies inside the feature's bounding rectangle unless the
// feature spans the antimeridian, so those features are only checked for
// valid coordinates.
func validateCentroids(centroids []domain.Centroid, features []domain.Feature) *phase {
	p := &phase{name: "centroids"}

	byName := make(map[string]domain.Feature, len(features))
	for _, f := range features {
		if _, dup := byName[f.Name]; !dup {
			byName[f.Name] = f
		}
	}

	for _, c := range centroids {
		ll := s2.LatLngFromDegrees(c.Lat, c.Lon)
		if !ll.IsValid() {
			p.errorf("%s: (%g, %g) is not a valid coordinate", c.Name, c.Lat, c.Lon)
			continue
		}
		f, ok := byName[c.Name]
		if !ok {
			p.errorf("%s: no boundary feature with this name", c.Name)
			continue
		}

		rect := s2.EmptyRect()
		minLon, maxLon := math.Inf(1), math.Inf(-1)
		for _, v := range f.Geometry.Vertices() {
			rect = rect.AddPoint(s2.LatLngFromDegrees(v[1], v[0]))
			minLon, maxLon = math.Min(minLon, v[0]), math.Max(maxLon, v[0])
		}
		if maxLon-minLon > 180 {
			continue
		}
		// Allow a small margin for float error on degenerate rectangles.
		if !rect.ContainsLatLng(ll) && rect.DistanceToLatLng(ll) > s1.Angle(tolerance) {
			p.errorf("%s: centroid (%g, %g) outside bounding rectangle %v", c.Name, c.Lat, c.Lon, rect)
		}
	}
	return p
}
