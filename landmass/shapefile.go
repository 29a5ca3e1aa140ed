package landmass

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path"
	"reflect"
	"strings"

	"github.com/jonas-p/go-shp"
)

// ShapefileReader loads zipped shapefiles, such as the land or water
// polygons published by osmdata. Ring roles follow the shapefile
// convention: outer rings clockwise, holes counter-clockwise.
//
// Ring and polygon ids are negative so they never collide with OSM way
// ids, and keep counting down across every file read by one reader.
type ShapefileReader struct {
	nextRing  int64
	nextShape int64
}

func NewShapefileReader() *ShapefileReader {
	return &ShapefileReader{}
}

// ReadShapefile reads a single file with a fresh reader.
func ReadShapefile(zipfile string, diag *Diagnostics) ([]Polygon, error) {
	return NewShapefileReader().Read(zipfile, diag)
}

func (s *ShapefileReader) Read(zipfile string, diag *Diagnostics) ([]Polygon, error) {
	tmp, err := ioutil.TempDir("", "landmass")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	r, err := zip.OpenReader(zipfile)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	shpName := ""
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		err = unpackFile(f, tmp)
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(f.Name, ".shp") {
			shpName = path.Base(f.Name)
		}
	}

	if shpName == "" {
		return nil, errors.New("No shape file found in zip")
	}
	log.Printf("Parsing %s", shpName)

	shape, err := shp.Open(path.Join(tmp, shpName))
	if err != nil {
		return nil, err
	}
	defer shape.Close()

	polygons := make([]Polygon, 0)
	for shape.Next() {
		_, p := shape.Shape()
		poly, ok := p.(*shp.Polygon)
		if !ok {
			return nil, fmt.Errorf("Non-polygon found: %s, %v", reflect.TypeOf(p).Elem(), p.BBox())
		}

		rings := make([]RoledRing, 0, len(poly.Parts))
		for i, first := range poly.Parts {
			last := len(poly.Points)
			if i < len(poly.Parts)-1 {
				last = int(poly.Parts[i+1])
			}

			points := make([]Point, 0, last-int(first))
			for _, pt := range poly.Points[first:last] {
				points = append(points, Point{X: pt.X, Y: pt.Y})
			}

			s.nextRing--
			ring, ok := newRing(points, []int64{s.nextRing}, diag)
			if !ok {
				continue
			}

			role := Inner
			if ring.Clockwise() {
				role = Outer
			}
			rings = append(rings, RoledRing{Ring: ring, Role: role})
		}

		s.nextShape--
		polygons = append(polygons, NestRings(s.nextShape, rings, diag)...)
	}

	log.Printf("Read %d polygons from %s", len(polygons), shpName)
	return polygons, nil
}

func unpackFile(f *zip.File, folder string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path.Join(folder, path.Base(f.Name)))
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
