// Package geojson reads country boundary FeatureCollections.
package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties struct {
		Name string `json:"name"`
	} `json:"properties"`
	Geometry *domain.Geometry `json:"geometry"`
}

// Reader loads a GeoJSON FeatureCollection file.
// It implements pipeline.BoundarySource.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a reader for the FeatureCollection at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// ReadFeatures returns the collection's features in file order, named by
// properties.name. Features with a null geometry are kept with an empty
// geometry so the centroid step can count them as skipped.
func (r *Reader) ReadFeatures(ctx context.Context) ([]domain.Feature, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read geojson %s: %w", r.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson %s: %w", r.path, err)
	}
	r.logger.Debug("boundaries read", "path", r.path, "features", len(features))
	return features, nil
}

func decode(data []byte) ([]domain.Feature, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected type %q", fc.Type)
	}

	features := make([]domain.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		out := domain.Feature{Name: f.Properties.Name}
		if f.Geometry != nil {
			out.Geometry = *f.Geometry
		}
		features = append(features, out)
	}
	return features, nil
}
