// Command genmock writes a small, deterministic set of input fixtures for the
// ETL: a disasters CSV, a post-2015 disasters workbook, an emissions CSV and a
// boundary FeatureCollection. The ETL can be run against the output directory
// end to end without the real datasets.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/mock -countries 6 -seed 42
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var disasterTypes = []string{"flood", "storm", "earthquake", "drought", "landslide", "extreme temperature"}

var disasterHeader = []string{"year", "level", "disastertype", "latitude", "longitude", "country"}

type country struct {
	name     string
	code     string
	lat, lon float64
	base     float64 // base annual emissions in tonnes
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for fixtures")
	n := flag.Int("countries", 6, "number of synthetic countries")
	seed := flag.Uint64("seed", 42, "random seed")
	firstYear := flag.Int("first-year", 2005, "first year of data")
	lastYear := flag.Int("last-year", 2020, "last year of data")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *n < 1 || *lastYear < *firstYear {
		return fmt.Errorf("invalid range: countries=%d years=%d..%d", *n, *firstYear, *lastYear)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	countries := makeCountries(rng, *n)

	var before, after [][]string
	for year := *firstYear; year <= *lastYear; year++ {
		for _, c := range countries {
			for range rng.IntN(4) {
				row := disasterRow(rng, c, year)
				if year > 2015 {
					after = append(after, row)
				} else {
					before = append(before, row)
				}
			}
		}
	}

	if err := writeCSV(filepath.Join(*out, "disasters.csv"), disasterHeader, before); err != nil {
		return err
	}
	if err := writeXLSX(filepath.Join(*out, "after_2015_disasters.xlsx"), disasterHeader, after); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(*out, "emissions.csv"),
		[]string{"Entity", "Code", "Year", "Annual CO₂ emissions"},
		emissionRows(rng, countries, *firstYear, *lastYear)); err != nil {
		return err
	}
	if err := writeBoundaries(filepath.Join(*out, "countries.geojson"), countries); err != nil {
		return err
	}

	fmt.Printf("wrote %d + %d disaster rows for %d countries to %s\n", len(before), len(after), len(countries), *out)
	return nil
}

func makeCountries(rng *rand.Rand, n int) []country {
	countries := make([]country, n)
	for i := range countries {
		countries[i] = country{
			name: fmt.Sprintf("Country %c", 'A'+rune(i%26)),
			code: fmt.Sprintf("C%02d", i),
			lat:  rng.Float64()*120 - 60,
			lon:  rng.Float64()*340 - 170,
			base: 1e7 + rng.Float64()*5e9,
		}
	}
	return countries
}

// disasterRow scatters events within half a degree of the country center so
// several land in the same 0.01 degree bin only occasionally.
func disasterRow(rng *rand.Rand, c country, year int) []string {
	return []string{
		strconv.Itoa(year),
		strconv.Itoa(1 + rng.IntN(5)),
		disasterTypes[rng.IntN(len(disasterTypes))],
		strconv.FormatFloat(c.lat+rng.Float64()-0.5, 'f', 4, 64),
		strconv.FormatFloat(c.lon+rng.Float64()-0.5, 'f', 4, 64),
		c.name,
	}
}

func emissionRows(rng *rand.Rand, countries []country, first, last int) [][]string {
	var rows [][]string
	for _, c := range countries {
		value := c.base
		for year := first; year <= last; year++ {
			value *= 0.95 + rng.Float64()*0.1
			rows = append(rows, []string{c.name, c.code, strconv.Itoa(year), strconv.FormatFloat(value, 'f', 0, 64)})
		}
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeXLSX(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	write := func(r int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := write(1, headerRow); err != nil {
		return err
	}
	for i, row := range rows {
		values := make([]any, len(row))
		for j, v := range row {
			// Numeric columns are stored as numbers, as in the published workbook.
			if num, err := strconv.ParseFloat(v, 64); err == nil {
				values[j] = num
			} else {
				values[j] = v
			}
		}
		if err := write(i+2, values); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// writeBoundaries emits a two-degree square around each country center.
// Every third country is a MultiPolygon with an offshore island.
func writeBoundaries(path string, countries []country) error {
	square := func(lat, lon, half float64) [][][2]float64 {
		return [][][2]float64{{
			{lon - half, lat - half}, {lon - half, lat + half},
			{lon + half, lat + half}, {lon + half, lat - half},
			{lon - half, lat - half},
		}}
	}

	features := make([]map[string]any, 0, len(countries))
	for i, c := range countries {
		geometry := map[string]any{"type": "Polygon", "coordinates": square(c.lat, c.lon, 1)}
		if i%3 == 2 {
			geometry = map[string]any{
				"type":        "MultiPolygon",
				"coordinates": [][][][2]float64{square(c.lat, c.lon, 1), square(c.lat+3, c.lon+3, 0.25)},
			}
		}
		features = append(features, map[string]any{
			"type":       "Feature",
			"properties": map[string]string{"name": c.name, "iso_a3": c.code},
			"geometry":   geometry,
		})
	}

	data, err := json.MarshalIndent(map[string]any{"type": "FeatureCollection", "features": features}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
