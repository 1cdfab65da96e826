package domain

import (
	"encoding/json"
	"time"
)

// Table is a tabular source batch as read by an adapter: a header row and
// string cells. CSV and XLSX readers both reduce to this shape so the schema
// boundary is the same for every source.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
}

// DisasterEvent is the canonical record every disaster source is projected onto.
type DisasterEvent struct {
	Year         int     `json:"year"`
	Level        float64 `json:"level"`
	DisasterType string  `json:"disastertype"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Country      string  `json:"country"`
	// MissingCoords marks a row with a blank latitude or longitude. It still
	// counts per country-year but never lands in a spatial bin.
	MissingCoords bool `json:"-"`
}

// EmissionRow is one raw per-country-year emissions observation.
type EmissionRow struct {
	Country string
	Year    int
	Raw     float64
}

// EmissionPoint is a normalized observation as emitted in normalized_emissions.json.
type EmissionPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
	Raw   float64 `json:"raw"`
}

// NormalizedEmissions maps a country name to its observations.
type NormalizedEmissions map[string][]EmissionPoint

// GeoBinAggregate summarizes all events sharing a (year, rounded lat, rounded lon) cell.
type GeoBinAggregate struct {
	Year          int     `json:"year"`
	LatBin        float64 `json:"lat_rounded"`
	LonBin        float64 `json:"lon_rounded"`
	Country       string  `json:"country"`
	TotalLevel    float64 `json:"level"`
	DisasterTypes string  `json:"disastertype"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// CountryYearAggregate totals the events of one country in one year.
type CountryYearAggregate struct {
	Country       string  `json:"country"`
	Year          int     `json:"year"`
	TotalLevel    float64 `json:"total_level"`
	NumDisasters  int     `json:"num_disasters"`
	DisasterTypes string  `json:"disaster_types"`
}

// Cumulative holds running totals over a country's ascending years.
type Cumulative struct {
	CumDisasters int     `json:"cum_disasters"`
	CumLevel     float64 `json:"cum_level"`
	CumEmissions float64 `json:"cum_emissions"`
}

// SufferingRow is a country-year aggregate joined with emissions. Cumulative
// is nil in pointwise mode, so the cum_* fields are absent from its JSON.
type SufferingRow struct {
	CountryYearAggregate
	Emissions float64 `json:"emissions"`
	*Cumulative
	SufferingIndex float64 `json:"suffering_index"`
}

// Feature is a named boundary geometry.
type Feature struct {
	Name     string
	Geometry Geometry
}

// Geometry keeps the raw nested GeoJSON coordinate arrays; their shape
// depends on Type and is only decoded by the centroid extractor.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Centroid is the unweighted mean of a feature's ring vertices.
type Centroid struct {
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

// Documents is the full set of outputs of one pipeline run.
type Documents struct {
	GeneratedAt         time.Time
	NormalizedEmissions NormalizedEmissions
	AggregatedDisasters []GeoBinAggregate
	Suffering           []SufferingRow
	Centroids           []Centroid
}
