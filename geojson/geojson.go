package geojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	gj "github.com/paulmach/go.geojson"
	"github.com/rubenv/landmass/landmass"
)

func rings(p landmass.Polygon) [][][]float64 {
	out := make([][][]float64, 0, len(p.Holes)+1)
	out = append(out, coordinates(p.Outer))
	for _, h := range p.Holes {
		out = append(out, coordinates(h))
	}
	return out
}

func coordinates(r landmass.Ring) [][]float64 {
	coords := make([][]float64, len(r.Points))
	for i, p := range r.Points {
		coords[i] = []float64{p.X, p.Y}
	}
	return coords
}

// FeatureCollection builds one Polygon feature per landmass polygon.
func FeatureCollection(polys []landmass.LandmassPolygon) *gj.FeatureCollection {
	fc := gj.NewFeatureCollection()
	for _, lp := range polys {
		f := gj.NewPolygonFeature(rings(lp.Polygon))
		f.SetProperty("feature_type", lp.FeatureType)
		f.SetProperty("area_sqm", lp.AreaSqm)
		f.SetProperty("index", lp.Index)
		fc.AddFeature(f)
	}
	return fc
}

func Write(w io.Writer, polys []landmass.LandmassPolygon) error {
	return json.NewEncoder(w).Encode(FeatureCollection(polys))
}

func WriteFile(filename string, polys []landmass.LandmassPolygon) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	err = Write(f, polys)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadPolygon reads the first polygon of a GeoJSON geometry, feature or
// feature collection.
func ReadPolygon(r io.Reader) (landmass.Polygon, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return landmass.Polygon{}, err
	}

	var head struct {
		Type string `json:"type"`
	}
	err = json.Unmarshal(data, &head)
	if err != nil {
		return landmass.Polygon{}, err
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := gj.UnmarshalFeatureCollection(data)
		if err != nil {
			return landmass.Polygon{}, err
		}
		for _, f := range fc.Features {
			if p, err := fromGeometry(f.Geometry); err == nil {
				return p, nil
			}
		}
		return landmass.Polygon{}, errors.New("No polygon found in FeatureCollection")
	case "Feature":
		f, err := gj.UnmarshalFeature(data)
		if err != nil {
			return landmass.Polygon{}, err
		}
		return fromGeometry(f.Geometry)
	default:
		g, err := gj.UnmarshalGeometry(data)
		if err != nil {
			return landmass.Polygon{}, err
		}
		return fromGeometry(g)
	}
}

func ReadPolygonFile(filename string) (landmass.Polygon, error) {
	f, err := os.Open(filename)
	if err != nil {
		return landmass.Polygon{}, err
	}
	defer f.Close()

	p, err := ReadPolygon(f)
	if err != nil {
		return landmass.Polygon{}, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

func fromGeometry(g *gj.Geometry) (landmass.Polygon, error) {
	if g == nil {
		return landmass.Polygon{}, errors.New("Feature has no geometry")
	}

	var rs [][][]float64
	switch {
	case g.IsPolygon():
		rs = g.Polygon
	case g.IsMultiPolygon() && len(g.MultiPolygon) > 0:
		rs = g.MultiPolygon[0]
	default:
		return landmass.Polygon{}, fmt.Errorf("Geometry is not a Polygon: %s", g.Type)
	}
	if len(rs) == 0 || len(rs[0]) < landmass.MinRingPoints {
		return landmass.Polygon{}, errors.New("Polygon has no rings")
	}

	p := landmass.Polygon{Outer: toRing(rs[0])}
	for _, h := range rs[1:] {
		p.Holes = append(p.Holes, toRing(h))
	}
	return p, nil
}

func toRing(coords [][]float64) landmass.Ring {
	points := make([]landmass.Point, 0, len(coords)+1)
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		points = append(points, landmass.Point{X: c[0], Y: c[1]})
	}
	if len(points) > 0 && !points[0].Equal(points[len(points)-1]) {
		points = append(points, points[0])
	}
	return landmass.Ring{Points: points}
}
