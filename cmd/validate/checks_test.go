package main

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmissions(t *testing.T) {
	good := domain.NormalizedEmissions{
		"X": {{Year: 2000, Value: 0.5, Raw: 50}},
		"Y": {{Year: 2000, Value: 1, Raw: 100}, {Year: 2001, Value: 0, Raw: 0}},
	}
	assert.True(t, validateEmissions(good).passed())

	bad := domain.NormalizedEmissions{
		"X": {{Year: 2000, Value: 0.5}, {Year: 2000, Value: 0.5}},
	}
	p := validateEmissions(bad)
	assert.False(t, p.passed())
	assert.Len(t, p.errors, 2) // duplicate year and max != 1
}

func TestValidateBins(t *testing.T) {
	bins := []domain.GeoBinAggregate{
		{Year: 2000, LatBin: 10, LonBin: 20, TotalLevel: 10, Latitude: 10.001, Longitude: 20.002},
		{Year: 2001, LatBin: -5.5, LonBin: 30, TotalLevel: 2, Latitude: -5.5, Longitude: 30},
	}
	assert.True(t, validateBins(bins).passed())

	bins[1].Year = 1999
	bins[1].TotalLevel = 1
	p := validateBins(bins)
	assert.Len(t, p.errors, 2)
}

func TestValidateSuffering_Cumulative(t *testing.T) {
	index := domain.NewEmissionsIndex(domain.NormalizedEmissions{
		"X": {{Year: 2000, Value: 1, Raw: 2e9}, {Year: 2001, Value: 1, Raw: 1e9}},
	})
	opts := domain.SufferingOptions{Mode: domain.ModeCumulative, EmissionsScale: domain.DefaultEmissionsScale}
	report := domain.CalculateSuffering([]domain.CountryYearAggregate{
		{Country: "X", Year: 2000, TotalLevel: 10, NumDisasters: 2},
		{Country: "X", Year: 2001, TotalLevel: 4, NumDisasters: 1},
		{Country: "Y", Year: 2000, TotalLevel: 3, NumDisasters: 1},
	}, index, opts)

	assert.True(t, validateSuffering(report.Rows, opts).passed())

	report.Rows[1].CumLevel = 99
	assert.False(t, validateSuffering(report.Rows, opts).passed())
}

func TestValidateSuffering_Pointwise(t *testing.T) {
	opts := domain.SufferingOptions{Mode: domain.ModePointwise}
	rows := []domain.SufferingRow{
		{CountryYearAggregate: domain.CountryYearAggregate{Country: "X", Year: 2000, TotalLevel: 10}, Emissions: 5, SufferingIndex: 10},
		{CountryYearAggregate: domain.CountryYearAggregate{Country: "X", Year: 2001, TotalLevel: 4}, SufferingIndex: 0},
	}
	assert.True(t, validateSuffering(rows, opts).passed())

	rows[1].SufferingIndex = 4
	assert.False(t, validateSuffering(rows, opts).passed())
}

func TestValidateCentroids(t *testing.T) {
	features := []domain.Feature{
		{Name: "Square", Geometry: domain.Geometry{Type: domain.GeometryPolygon, Coordinates: json.RawMessage(`[[[0,0],[0,2],[2,2],[2,0]]]`)}},
		{Name: "Fiji", Geometry: domain.Geometry{Type: domain.GeometryPolygon, Coordinates: json.RawMessage(`[[[179,-17],[-179,-17],[-179,-16]]]`)}},
	}
	centroids, _ := domain.ExtractCentroids(features)
	assert.True(t, validateCentroids(centroids, features).passed())

	p := validateCentroids([]domain.Centroid{
		{Name: "Square", Lon: 5, Lat: 5},
		{Name: "Atlantis", Lon: 0, Lat: 0},
		{Name: "Square", Lon: 0, Lat: 95},
	}, features)
	assert.Len(t, p.errors, 3)
}
