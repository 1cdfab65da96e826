// Command validate checks the documents in an ETL output directory against
// the properties the globe front end relies on: normalized values in [0, 1]
// with a per-year maximum of 1, bins that match their rounded coordinates,
// ordered and monotone cumulative suffering rows, and centroids that are
// valid coordinates inside their feature's bounding rectangle.
//
// Usage:
//
//	go run ./cmd/validate -dir datasets -boundaries countries.geojson -mode cumulative
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/globe-suffering-etl/internal/adapter/geojson"
	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "datasets", "ETL output directory")
	boundaries := flag.String("boundaries", "", "boundary FeatureCollection used for the run (enables centroid checks)")
	mode := flag.String("mode", string(domain.ModeCumulative), "suffering mode the run used")
	scale := flag.Float64("scale", domain.DefaultEmissionsScale, "emissions scale the run used")
	flag.Parse()

	sufferingMode, err := domain.ParseSufferingMode(*mode)
	if err != nil || *scale <= 0 {
		flag.Usage()
		os.Exit(1)
	}
	os.Exit(run(*dir, *boundaries, domain.SufferingOptions{Mode: sufferingMode, EmissionsScale: *scale}))
}

func run(dir, boundariesPath string, opts domain.SufferingOptions) int {
	fmt.Println("=== Globe Dataset Validation ===")
	fmt.Println()

	emissions, err := loadJSON[domain.NormalizedEmissions](filepath.Join(dir, domain.DocNormalizedEmissions))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	bins, err := loadJSON[[]domain.GeoBinAggregate](filepath.Join(dir, domain.DocAggregatedDisasters))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	suffering, err := loadJSON[[]domain.SufferingRow](filepath.Join(dir, domain.DocSuffering))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateEmissions(emissions),
		validateBins(bins),
		validateSuffering(suffering, opts),
	}

	if boundariesPath != "" {
		centroids, err := loadJSON[[]domain.Centroid](filepath.Join(dir, domain.DocCentroids))
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		features, err := geojson.NewReader(boundariesPath, slog.Default()).ReadFeatures(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		phases = append(phases, validateCentroids(centroids, features))
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("RESULT: FAILED")
		return 1
	}
	fmt.Println("RESULT: ALL CHECKS PASSED")
	return 0
}

func loadJSON[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}
