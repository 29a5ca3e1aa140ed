package geojson

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cheekybits/is"
	gj "github.com/paulmach/go.geojson"
	"github.com/rubenv/landmass/landmass"
)

func square() landmass.Polygon {
	return landmass.Polygon{
		ID: 1,
		Outer: landmass.Ring{Points: []landmass.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0},
		}},
	}
}

func TestWrite(t *testing.T) {
	is := is.New(t)

	polys := landmass.BuildLandmass([]landmass.Polygon{square()}, 0, nil)
	is.Equal(len(polys), 1)

	var buf bytes.Buffer
	is.NoErr(Write(&buf, polys))

	fc, err := gj.UnmarshalFeatureCollection(buf.Bytes())
	is.NoErr(err)
	is.Equal(len(fc.Features), 1)

	f := fc.Features[0]
	is.True(f.Geometry.IsPolygon())
	is.Equal(len(f.Geometry.Polygon), 1)
	is.Equal(len(f.Geometry.Polygon[0]), 5)
	is.Equal(f.Properties["feature_type"], "landmass")
	is.Equal(f.Properties["index"], 0.0)

	area, ok := f.Properties["area_sqm"].(float64)
	is.True(ok)
	is.True(area > 1e10)
}

func TestReadPolygon(t *testing.T) {
	is := is.New(t)

	in := `{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10]]]},"properties":null}`
	p, err := ReadPolygon(strings.NewReader(in))
	is.NoErr(err)
	is.Equal(len(p.Outer.Points), 5)
	is.Equal(p.Outer.Points[4], p.Outer.Points[0])
	is.Equal(p.Area(), 100.0)
}

func TestReadPolygonCollection(t *testing.T) {
	is := is.New(t)

	in := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{}},
		{"type":"Feature","geometry":{"type":"MultiPolygon","coordinates":[[[[0,0],[2,0],[2,2],[0,2],[0,0]],[[0.5,0.5],[0.5,1],[1,1],[1,0.5],[0.5,0.5]]]]},"properties":{}}
	]}`
	p, err := ReadPolygon(strings.NewReader(in))
	is.NoErr(err)
	is.Equal(len(p.Holes), 1)
	is.Equal(p.Area(), 3.75)
}

func TestReadPolygonGeometry(t *testing.T) {
	is := is.New(t)

	_, err := ReadPolygon(strings.NewReader(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`))
	is.Err(err)

	_, err = ReadPolygon(strings.NewReader(`not json`))
	is.Err(err)
}
