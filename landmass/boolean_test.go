package landmass

import (
	"fmt"
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulsmith/gogeos/geos"
)

func testEngine() (*Engine, *Diagnostics) {
	diag := NewDiagnostics()
	return NewEngine(NewConfig(), diag), diag
}

func TestUnionIdempotent(t *testing.T) {
	is := is.New(t)

	e, diag := testEngine()
	out := e.Union([]Polygon{square(1, 0, 0, 10, 10), square(2, 0, 0, 10, 10)})

	is.Equal(len(diag.Drain()), 0)
	is.Equal(len(out), 1)
	is.Equal(out[0].ID, int64(1))
	is.True(near(out[0].Area(), 100))
}

func TestUnionOverlap(t *testing.T) {
	is := is.New(t)

	e, _ := testEngine()
	a := square(1, 0, 0, 2, 2)
	b := square(2, 1, 1, 3, 3)

	ab := e.Union([]Polygon{a, b})
	ba := e.Union([]Polygon{b, a})
	is.Equal(len(ab), 1)
	is.Equal(len(ba), 1)
	is.True(near(ab[0].Area(), 7))
	is.True(near(ab[0].Area(), ba[0].Area()))
}

func TestUnionDisjoint(t *testing.T) {
	is := is.New(t)

	e, _ := testEngine()
	out := e.Union([]Polygon{
		square(9, 20, 20, 21, 21),
		square(4, 0, 0, 2, 2),
		square(5, 2, 0, 4, 2),
	})

	// 4 and 5 share an edge and merge, 9 stays on its own.
	is.Equal(len(out), 2)
	is.Equal(out[0].ID, int64(1))
	is.Equal(out[1].ID, int64(2))
	is.True(near(totalArea(out), 9))
}

func TestUnionEmpty(t *testing.T) {
	is := is.New(t)

	e, _ := testEngine()
	is.Equal(len(e.Union(nil)), 0)
}

func TestDifference(t *testing.T) {
	is := is.New(t)

	e, diag := testEngine()
	land := []Polygon{square(1, 0, 0, 10, 10)}

	out := e.Difference(land, nil)
	is.Equal(len(out), 1)
	is.Equal(out[0].Area(), 100.0)

	out = e.Difference(land, []Polygon{square(2, 0, 0, 10, 10)})
	is.Equal(len(out), 0)
	is.Equal(totalArea(out), 0.0)

	out = e.Difference(land, []Polygon{square(3, 2, 2, 6, 7)})
	is.Equal(len(out), 1)
	is.Equal(len(out[0].Holes), 1)
	is.True(near(out[0].Area(), 80))

	out = e.Difference(land, []Polygon{square(4, 50, 50, 60, 60)})
	is.Equal(len(out), 1)
	is.True(near(out[0].Area(), 100))

	is.Equal(diag.Count(BooleanRepairFailed), 0)
}

func TestDifferenceSplits(t *testing.T) {
	is := is.New(t)

	e, _ := testEngine()
	out := e.Difference(
		[]Polygon{square(1, 0, 0, 10, 10)},
		[]Polygon{square(2, 4, -1, 6, 11)},
	)

	is.Equal(len(out), 2)
	is.True(near(totalArea(out), 80))
}

func TestRepairSelfIntersection(t *testing.T) {
	is := is.New(t)

	e, diag := testEngine()
	bowtie := Polygon{
		ID: 1,
		Outer: Ring{ID: 1, Points: []Point{
			pt(0, 0), pt(2, 2), pt(2, 0), pt(0, 2), pt(0, 0),
		}},
	}
	out := e.Union([]Polygon{bowtie, square(2, 10, 10, 11, 11)})

	is.True(len(out) >= 1)
	for _, p := range out {
		is.True(p.Area() > 0)
	}
	is.Equal(diag.Count(BooleanRepairFailed), 0)
}

func TestClip(t *testing.T) {
	is := is.New(t)

	e, _ := testEngine()
	out := e.Clip([]Polygon{
		square(1, 0, 0, 10, 10),
		square(2, 2, 2, 3, 3),
		square(3, 50, 50, 51, 51),
	}, square(0, 0, 0, 5, 10))

	is.Equal(len(out), 2)
	is.True(near(totalArea(out), 51))
}

func TestDifferenceRecoversDisjoint(t *testing.T) {
	is := is.New(t)

	e, _ := testEngine()
	a := square(1, 0, 0, 3, 3)
	b := square(2, 5, 5, 6, 6)

	out := e.Difference(e.Union([]Polygon{a, b}), []Polygon{b})
	is.Equal(len(out), 1)
	is.True(near(out[0].Area(), a.Area()))
	is.Equal(out[0].Bounds(), a.Bounds())
}

func TestDifferenceSkipsFailingWater(t *testing.T) {
	is := is.New(t)

	// Every subtraction of the 2x2 lake fails, including all repair rounds.
	orig := differenceOp
	defer func() { differenceOp = orig }()
	calls := 0
	differenceOp = func(a, b *geos.Geometry) (*geos.Geometry, error) {
		if area(b) > 2 {
			calls++
			return nil, fmt.Errorf("attempt %d", calls)
		}
		return orig(a, b)
	}

	e, diag := testEngine()
	out := e.Difference(
		[]Polygon{square(1, 0, 0, 10, 10)},
		[]Polygon{square(7, 1, 1, 2, 2), square(8, 4, 4, 6, 6)},
	)

	is.Equal(len(out), 1)
	is.Equal(len(out[0].Holes), 1)
	is.True(near(out[0].Area(), 99))

	events := diag.Drain()
	is.Equal(len(events), 1)
	is.Equal(events[0].Kind, BooleanRepairFailed)
	is.Equal(events[0].PolygonID, int64(8))

	// The reason is the one of the last repair round.
	is.Equal(calls, DefaultRepairAttempts+2)
	is.Equal(events[0].Reason, fmt.Sprintf("attempt %d", calls))
}
