package landmass

import (
	"math"
	"sort"
)

const FeatureLandmass = "landmass"

// LandmassPolygon is a final output polygon.
type LandmassPolygon struct {
	Polygon

	FeatureType string
	AreaSqm     float64

	// Planar area in square degrees.
	Area float64

	// Position in descending area order, starting at 0.
	Index int
}

// BuildLandmass orders the coverage by descending area and assigns
// indexes. Polygons below minAreaSqm or with fewer than 3 distinct
// vertices are dropped and reported as degenerate_dropped.
func BuildLandmass(coverage []Polygon, minAreaSqm float64, diag *Diagnostics) []LandmassPolygon {
	return build(coverage, FeatureLandmass, minAreaSqm, diag)
}

// Describe attaches areas and indexes to polygons without dropping any,
// for debug output of intermediate coverages.
func Describe(polys []Polygon, featureType string) []LandmassPolygon {
	return build(polys, featureType, math.Inf(-1), nil)
}

func build(coverage []Polygon, featureType string, minAreaSqm float64, diag *Diagnostics) []LandmassPolygon {
	result := make([]LandmassPolygon, 0, len(coverage))
	for _, p := range coverage {
		p = p.Normalized()
		lp := LandmassPolygon{
			Polygon:     p,
			FeatureType: featureType,
			AreaSqm:     p.AreaSqm(),
			Area:        p.Area(),
		}

		if diag != nil && (p.Outer.distinct() < 3 || lp.AreaSqm < minAreaSqm) {
			diag.Report(Diagnostic{
				Kind:      DegenerateDropped,
				PolygonID: p.ID,
				Area:      lp.AreaSqm,
			})
			continue
		}
		result = append(result, lp)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.AreaSqm != b.AreaSqm {
			return a.AreaSqm > b.AreaSqm
		}
		if a.Area != b.Area {
			return a.Area > b.Area
		}
		va, vb := lowestVertex(a.Outer.Points), lowestVertex(b.Outer.Points)
		if va.X != vb.X {
			return va.X < vb.X
		}
		return va.Y < vb.Y
	})

	for i := range result {
		result[i].Index = i
	}
	return result
}
