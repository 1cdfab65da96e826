package domain

import "encoding/json"

// Geometry types the centroid extractor flattens.
const (
	GeometryPolygon      = "Polygon"
	GeometryMultiPolygon = "MultiPolygon"
)

type position = []float64

// ExtractCentroids computes the unweighted vertex mean of every feature.
// Polygon rings (outer and holes) and every ring of every MultiPolygon member
// contribute equally; there is no area weighting. Features with no usable
// vertices, including unrecognized geometry types, are skipped and counted.
func ExtractCentroids(features []Feature) (centroids []Centroid, skipped int) {
	centroids = make([]Centroid, 0, len(features))
	for _, f := range features {
		points := flattenGeometry(f.Geometry)
		if len(points) == 0 {
			skipped++
			continue
		}
		var sumLon, sumLat float64
		for _, p := range points {
			sumLon += p[0]
			sumLat += p[1]
		}
		n := float64(len(points))
		centroids = append(centroids, Centroid{Name: f.Name, Lon: sumLon / n, Lat: sumLat / n})
	}
	return centroids, skipped
}

// flattenGeometry returns every ring vertex as [lon, lat]. Malformed
// coordinate arrays yield no points, like an unknown geometry type.
func flattenGeometry(g Geometry) []position {
	var rings [][]position
	switch g.Type {
	case GeometryPolygon:
		var polygon [][]position
		if err := json.Unmarshal(g.Coordinates, &polygon); err != nil {
			return nil
		}
		rings = polygon
	case GeometryMultiPolygon:
		var multi [][][]position
		if err := json.Unmarshal(g.Coordinates, &multi); err != nil {
			return nil
		}
		for _, polygon := range multi {
			rings = append(rings, polygon...)
		}
	default:
		return nil
	}

	var points []position
	for _, ring := range rings {
		for _, p := range ring {
			if len(p) < 2 {
				continue
			}
			points = append(points, p)
		}
	}
	return points
}

// Vertices returns every usable [lon, lat, ...] position of a Polygon or
// MultiPolygon, holes included, in file order.
func (g Geometry) Vertices() [][]float64 {
	return flattenGeometry(g)
}
