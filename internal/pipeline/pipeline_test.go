package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
	"github.com/couchcryptid/globe-suffering-etl/internal/observability"
	"github.com/couchcryptid/globe-suffering-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockTable struct {
	table domain.Table
	err   error
}

func (m *mockTable) ReadTable(_ context.Context) (domain.Table, error) {
	return m.table, m.err
}

type mockBoundaries struct {
	features []domain.Feature
	err      error
}

func (m *mockBoundaries) ReadFeatures(_ context.Context) ([]domain.Feature, error) {
	return m.features, m.err
}

type mockLoader struct {
	loaded []domain.Documents
	err    error
}

func (m *mockLoader) LoadDocuments(_ context.Context, docs domain.Documents) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, docs)
	return nil
}

var header = []string{"year", "level", "disastertype", "latitude", "longitude", "country"}

func testSources() pipeline.Sources {
	return pipeline.Sources{
		Disasters: []pipeline.TableSource{
			&mockTable{table: domain.Table{Source: "disasters.csv", Header: header, Rows: [][]string{
				{"2000", "5", "flood", "10.001", "20.002", "X"},
				{"2000", "x", "flood", "0", "0", "X"},
			}}},
			&mockTable{table: domain.Table{Source: "after_2015_disasters.xlsx", Header: header, Rows: [][]string{
				{"2016", "3", "storm", "1", "1", "Y"},
			}}},
		},
		Emissions: &mockTable{table: domain.Table{
			Source: "emissions.csv",
			Header: []string{"Entity", "Code", "Year", "Annual CO2 emissions"},
			Rows: [][]string{
				{"X", "XXX", "2000", "50"},
				{"Y", "YYY", "2016", "100"},
			},
		}},
		Boundaries: &mockBoundaries{features: []domain.Feature{
			{Name: "X", Geometry: domain.Geometry{Type: domain.GeometryPolygon, Coordinates: []byte(`[[[0,0],[2,2]]]`)}},
		}},
	}
}

func newPipeline(t *testing.T, sources pipeline.Sources, loaders ...pipeline.NamedLoader) (*pipeline.Pipeline, *observability.Metrics) {
	t.Helper()
	metrics, _ := observability.NewMetricsForTesting()
	return pipeline.New(sources, domain.DefaultBuildOptions(), loaders, slog.Default(), metrics), metrics
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	fixed := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	files, kafka := &mockLoader{}, &mockLoader{}
	p, metrics := newPipeline(t, testSources(),
		pipeline.NamedLoader{Name: "jsonfile", Loader: files},
		pipeline.NamedLoader{Name: "kafka", Loader: kafka},
	)

	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	require.Len(t, files.loaded, 1)
	require.Len(t, kafka.loaded, 1)
	if diff := cmp.Diff(files.loaded[0], kafka.loaded[0]); diff != "" {
		t.Fatalf("loaders saw different documents (-files +kafka):\n%s", diff)
	}

	docs := files.loaded[0]
	assert.Equal(t, fixed, docs.GeneratedAt)
	assert.Len(t, docs.Suffering, 2)
	assert.Equal(t, []domain.Centroid{{Name: "X", Lon: 1, Lat: 1}}, docs.Centroids)

	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.RowsRead.WithLabelValues("disasters.csv")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.RowsSkipped.WithLabelValues("disasters.csv")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.DocumentRecords.WithLabelValues(domain.DocSuffering)), 0)
	assert.InDelta(t, 4.0, testutil.ToFloat64(metrics.DocumentsLoaded.WithLabelValues("kafka")), 0)
	assert.InDelta(t, float64(fixed.Unix()), testutil.ToFloat64(metrics.LastSuccess), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_NoBoundarySource(t *testing.T) {
	sources := testSources()
	sources.Boundaries = nil
	loader := &mockLoader{}
	p, _ := newPipeline(t, sources, pipeline.NamedLoader{Name: "jsonfile", Loader: loader})

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, loader.loaded, 1)
	assert.Nil(t, loader.loaded[0].Centroids)
}

func TestPipeline_Run_EmptyBoundaryFile(t *testing.T) {
	sources := testSources()
	sources.Boundaries = &mockBoundaries{}
	loader := &mockLoader{}
	p, _ := newPipeline(t, sources, pipeline.NamedLoader{Name: "jsonfile", Loader: loader})

	require.NoError(t, p.Run(context.Background()))
	assert.NotNil(t, loader.loaded[0].Centroids)
	assert.Empty(t, loader.loaded[0].Centroids)
}

func TestPipeline_Run_SourceErrorIsFatal(t *testing.T) {
	sources := testSources()
	sources.Emissions = &mockTable{err: errors.New("file not found")}
	loader := &mockLoader{}
	p, _ := newPipeline(t, sources, pipeline.NamedLoader{Name: "jsonfile", Loader: loader})

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract emissions")
	assert.Empty(t, loader.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_SchemaMismatchWritesNothing(t *testing.T) {
	sources := testSources()
	sources.Disasters[1] = &mockTable{table: domain.Table{Source: "after_2015_disasters.xlsx", Header: []string{"year", "level"}}}
	loader := &mockLoader{}
	p, _ := newPipeline(t, sources, pipeline.NamedLoader{Name: "jsonfile", Loader: loader})

	err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrSchemaMismatch)

	var mismatch *domain.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "after_2015_disasters.xlsx", mismatch.Source)
	assert.Empty(t, loader.loaded)
}

func TestPipeline_Run_LoaderErrorStopsLaterLoaders(t *testing.T) {
	failing := &mockLoader{err: errors.New("disk full")}
	after := &mockLoader{}
	p, metrics := newPipeline(t, testSources(),
		pipeline.NamedLoader{Name: "jsonfile", Loader: failing},
		pipeline.NamedLoader{Name: "kafka", Loader: after},
	)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load jsonfile")
	assert.Empty(t, after.loaded)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.LoadErrors.WithLabelValues("jsonfile")), 0)
	assert.Error(t, p.CheckReadiness(context.Background()))
}
