package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
	"github.com/couchcryptid/globe-suffering-etl/internal/observability"
)

// TableSource reads one tabular source batch.
type TableSource interface {
	ReadTable(ctx context.Context) (domain.Table, error)
}

// BoundarySource reads the country boundary features.
type BoundarySource interface {
	ReadFeatures(ctx context.Context) ([]domain.Feature, error)
}

// DocumentLoader persists or publishes the documents of a run.
type DocumentLoader interface {
	LoadDocuments(ctx context.Context, docs domain.Documents) error
}

// Sources are the inputs of a run. Boundaries may be nil.
type Sources struct {
	Disasters  []TableSource
	Emissions  TableSource
	Boundaries BoundarySource
}

// NamedLoader labels a loader for logs and metrics.
type NamedLoader struct {
	Name   string
	Loader DocumentLoader
}

// Pipeline orchestrates one extract-transform-load run.
type Pipeline struct {
	sources Sources
	opts    domain.BuildOptions
	loaders []NamedLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(sources Sources, opts domain.BuildOptions, loaders []NamedLoader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		sources: sources,
		opts:    opts,
		loaders: loaders,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a run has loaded every document.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run reads every source, derives all documents, and hands them to each
// loader in order. Any failure aborts the run before later loaders see the
// documents; locally recovered conditions are only logged and counted.
func (p *Pipeline) Run(ctx context.Context) error {
	start := domain.Now()
	p.logger.Info("pipeline started",
		"suffering_mode", p.opts.Suffering.Mode,
		"bin_type_join", p.opts.BinJoin,
		"country_type_join", p.opts.CountryJoin,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	in, err := p.extract(ctx)
	if err != nil {
		return err
	}

	docs, err := p.transform(in)
	if err != nil {
		return err
	}

	if err := p.load(ctx, docs); err != nil {
		return err
	}

	elapsed := domain.Since(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	p.metrics.LastSuccess.Set(float64(domain.Now().Unix()))
	p.ready.Store(true)
	p.logger.Info("pipeline finished", "duration", elapsed)
	return nil
}

func (p *Pipeline) extract(ctx context.Context) (domain.BuildInput, error) {
	var in domain.BuildInput
	for _, src := range p.sources.Disasters {
		t, err := p.readTable(ctx, src)
		if err != nil {
			return domain.BuildInput{}, fmt.Errorf("extract disasters: %w", err)
		}
		in.Disasters = append(in.Disasters, t)
	}

	emissions, err := p.readTable(ctx, p.sources.Emissions)
	if err != nil {
		return domain.BuildInput{}, fmt.Errorf("extract emissions: %w", err)
	}
	in.Emissions = emissions

	if p.sources.Boundaries != nil {
		features, err := p.sources.Boundaries.ReadFeatures(ctx)
		if err != nil {
			return domain.BuildInput{}, fmt.Errorf("extract boundaries: %w", err)
		}
		if features == nil {
			features = []domain.Feature{}
		}
		in.Boundaries = features
	}
	return in, nil
}

func (p *Pipeline) readTable(ctx context.Context, src TableSource) (domain.Table, error) {
	t, err := src.ReadTable(ctx)
	if err != nil {
		return domain.Table{}, err
	}
	p.metrics.RowsRead.WithLabelValues(t.Source).Add(float64(len(t.Rows)))
	p.logger.Info("source read", "source", t.Source, "rows", len(t.Rows))
	return t, nil
}

func (p *Pipeline) load(ctx context.Context, docs domain.Documents) error {
	entries := docs.Entries()
	for _, e := range entries {
		p.metrics.DocumentRecords.WithLabelValues(e.Name).Set(float64(e.Records))
	}

	for _, l := range p.loaders {
		if err := l.Loader.LoadDocuments(ctx, docs); err != nil {
			p.metrics.LoadErrors.WithLabelValues(l.Name).Inc()
			p.logger.Error("load documents failed", "loader", l.Name, "error", err)
			return fmt.Errorf("load %s: %w", l.Name, err)
		}
		p.metrics.DocumentsLoaded.WithLabelValues(l.Name).Add(float64(len(entries)))
		p.logger.Info("documents loaded", "loader", l.Name, "documents", len(entries))
	}
	return nil
}
