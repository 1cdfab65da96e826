package domain

// BuildInput holds every source batch of one run. A nil Boundaries slice means
// no boundary source is configured and no centroid document is produced.
type BuildInput struct {
	Disasters  []Table
	Emissions  Table
	Boundaries []Feature
}

// BuildOptions selects the strategy variants of a run.
type BuildOptions struct {
	BinJoin     TypeJoin
	CountryJoin TypeJoin
	Suffering   SufferingOptions
}

// DefaultBuildOptions returns the primary pipeline variant: non-deduplicated
// bin types, deduplicated country-year types and the cumulative index.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		BinJoin:     JoinAll,
		CountryJoin: JoinUnique,
		Suffering: SufferingOptions{
			Mode:           ModeCumulative,
			EmissionsScale: DefaultEmissionsScale,
		},
	}
}

// BuildStats counts every locally recovered condition of a run.
type BuildStats struct {
	MergedEvents        int
	SkippedDisasterRows map[string]int
	SkippedEmissionRows int
	DegenerateYears     int
	DuplicateEmissions  int
	LookupMisses        int
	SkippedFeatures     int
}

// BuildDocuments derives all output documents from the run's inputs. It either
// returns every document or an error; there is no partial result.
func BuildDocuments(in BuildInput, opts BuildOptions) (Documents, BuildStats, error) {
	merged, err := MergeDisasters(in.Disasters...)
	if err != nil {
		return Documents{}, BuildStats{}, err
	}
	emissionRows, skippedEmissions, err := ParseEmissions(in.Emissions)
	if err != nil {
		return Documents{}, BuildStats{}, err
	}

	emissionRows, duplicateEmissions := DedupeEmissions(emissionRows)
	normalized := NormalizeEmissions(emissionRows)
	index := NewEmissionsIndex(normalized)
	aggs := AggregateCountryYears(merged.Events, opts.CountryJoin)
	report := CalculateSuffering(aggs, index, opts.Suffering)

	docs := Documents{
		GeneratedAt:         clock.Now(),
		NormalizedEmissions: normalized,
		AggregatedDisasters: AggregateBins(merged.Events, opts.BinJoin),
		Suffering:           report.Rows,
	}
	stats := BuildStats{
		MergedEvents:        len(merged.Events),
		SkippedDisasterRows: merged.Skipped,
		SkippedEmissionRows: skippedEmissions,
		DegenerateYears:     DegenerateYears(emissionRows),
		DuplicateEmissions:  duplicateEmissions,
		LookupMisses:        report.LookupMisses,
	}
	if in.Boundaries != nil {
		docs.Centroids, stats.SkippedFeatures = ExtractCentroids(in.Boundaries)
	}
	return docs, stats, nil
}

// Output document names, as fetched by the globe front end.
const (
	DocNormalizedEmissions = "normalized_emissions.json"
	DocAggregatedDisasters = "combined_disasters_aggregated.json"
	DocSuffering           = "combined_disasters_suffering.json"
	DocCentroids           = "centroids.json"
)

// DocumentEntry pairs a document name with its JSON-serializable body.
type DocumentEntry struct {
	Name string
	Body any
	// Records is the number of top-level records in Body.
	Records int
}

// Entries lists the documents of a run in a fixed order. The centroid
// document is only listed when a boundary source was read.
func (d Documents) Entries() []DocumentEntry {
	entries := []DocumentEntry{
		{Name: DocNormalizedEmissions, Body: d.NormalizedEmissions, Records: len(d.NormalizedEmissions)},
		{Name: DocAggregatedDisasters, Body: d.AggregatedDisasters, Records: len(d.AggregatedDisasters)},
		{Name: DocSuffering, Body: d.Suffering, Records: len(d.Suffering)},
	}
	if d.Centroids != nil {
		entries = append(entries, DocumentEntry{Name: DocCentroids, Body: d.Centroids, Records: len(d.Centroids)})
	}
	return entries
}
