package landmass

import (
	"fmt"

	"github.com/paulsmith/gogeos/geos"
)

func toCoords(points []Point) []geos.Coord {
	coords := make([]geos.Coord, len(points))
	for i, p := range points {
		coords[i] = geos.NewCoord(p.X, p.Y)
	}
	return coords
}

func fromCoords(coords []geos.Coord) []Point {
	points := make([]Point, len(coords))
	for i, c := range coords {
		points[i] = Point{X: c.X, Y: c.Y}
	}
	return points
}

func ringToGeos(r Ring) (*geos.Geometry, error) {
	return geos.NewPolygon(toCoords(r.Points))
}

// PolygonToGeos builds a GEOS polygon from p.
func PolygonToGeos(p Polygon) (*geos.Geometry, error) {
	holes := make([][]geos.Coord, len(p.Holes))
	for i, h := range p.Holes {
		holes[i] = toCoords(h.Points)
	}
	return geos.NewPolygon(toCoords(p.Outer.Points), holes...)
}

// PolygonsFromGeos splits a polygonal GEOS geometry into polygons.
// Non-polygonal parts of collections (slivers collapsed into lines or
// points by an operation) are ignored.
func PolygonsFromGeos(geom *geos.Geometry) ([]Polygon, error) {
	if geom == nil {
		return nil, nil
	}
	empty, err := geom.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}

	t, err := geom.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.POLYGON:
		p, err := polygonFromGeos(geom)
		if err != nil {
			return nil, err
		}
		return []Polygon{p}, nil
	case geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		c, err := geom.NGeometry()
		if err != nil {
			return nil, err
		}

		result := make([]Polygon, 0, c)
		for i := 0; i < c; i++ {
			g, err := geom.Geometry(i)
			if err != nil {
				return nil, err
			}

			polys, err := PolygonsFromGeos(g)
			if err != nil {
				return nil, err
			}
			result = append(result, polys...)
		}
		return result, nil
	case geos.POINT, geos.MULTIPOINT, geos.LINESTRING, geos.MULTILINESTRING, geos.LINEARRING:
		return nil, nil
	default:
		return nil, fmt.Errorf("Unknown geometry type: %v", t)
	}
}

func polygonFromGeos(geom *geos.Geometry) (Polygon, error) {
	shell, err := geom.Shell()
	if err != nil {
		return Polygon{}, err
	}
	coords, err := shell.Coords()
	if err != nil {
		return Polygon{}, err
	}

	p := Polygon{
		Outer: Ring{Points: fromCoords(coords)},
	}

	holes, err := geom.Holes()
	if err != nil {
		return Polygon{}, err
	}
	for _, h := range holes {
		coords, err := h.Coords()
		if err != nil {
			return Polygon{}, err
		}
		p.Holes = append(p.Holes, Ring{Points: fromCoords(coords)})
	}
	return p, nil
}

func collect(geoms []*geos.Geometry) (*geos.Geometry, error) {
	if len(geoms) == 1 {
		return geoms[0], nil
	}
	return geos.NewCollection(geos.GEOMETRYCOLLECTION, geoms...)
}

func area(geom *geos.Geometry) float64 {
	a, err := geom.Area()
	if err != nil {
		return 0
	}
	return a
}
