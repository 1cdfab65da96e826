package pipeline

import (
	"fmt"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
)

// transform derives the documents and reports every recovered condition.
func (p *Pipeline) transform(in domain.BuildInput) (domain.Documents, error) {
	docs, stats, err := domain.BuildDocuments(in, p.opts)
	if err != nil {
		return domain.Documents{}, fmt.Errorf("build documents: %w", err)
	}
	p.recordStats(in, stats)
	return docs, nil
}

func (p *Pipeline) recordStats(in domain.BuildInput, stats domain.BuildStats) {
	for source, skipped := range stats.SkippedDisasterRows {
		p.metrics.RowsSkipped.WithLabelValues(source).Add(float64(skipped))
		if skipped > 0 {
			p.logger.Warn("malformed disaster rows skipped", "source", source, "rows", skipped)
		}
	}
	p.metrics.RowsSkipped.WithLabelValues(in.Emissions.Source).Add(float64(stats.SkippedEmissionRows))
	if stats.SkippedEmissionRows > 0 {
		p.logger.Warn("malformed emission rows skipped", "source", in.Emissions.Source, "rows", stats.SkippedEmissionRows)
	}
	if stats.DegenerateYears > 0 {
		p.logger.Warn("years with no positive emissions normalized to zero", "years", stats.DegenerateYears)
	}
	if stats.DuplicateEmissions > 0 {
		p.logger.Warn("duplicate country-year emissions ignored", "duplicates", stats.DuplicateEmissions)
	}

	p.metrics.LookupMisses.Add(float64(stats.LookupMisses))
	p.metrics.SkippedFeatures.Add(float64(stats.SkippedFeatures))
	if stats.SkippedFeatures > 0 {
		p.logger.Warn("boundary features without vertices skipped", "features", stats.SkippedFeatures)
	}

	p.logger.Info("documents built",
		"merged_events", stats.MergedEvents,
		"emissions_lookup_misses", stats.LookupMisses,
	)
}
