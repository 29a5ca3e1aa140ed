package landmass

import (
	"testing"

	"github.com/cheekybits/is"
)

func relationOf(id int64, members ...Member) *Relation {
	return &Relation{ID: id, Class: Water, Members: members}
}

func way(id int64, role Role, points []Point) Member {
	return Member{
		Fragment: Fragment{ID: id, Points: points, Class: Water},
		Role:     role,
	}
}

func TestResolveRelation(t *testing.T) {
	is := is.New(t)

	diag := NewDiagnostics()
	polys := ResolveRelation(relationOf(100,
		way(1, Outer, rect(0, 0, 10, 10)),
		way(2, Inner, rect(2, 2, 6, 7)),
	), diag)

	is.Equal(len(diag.Drain()), 0)
	is.Equal(len(polys), 1)
	is.Equal(polys[0].ID, int64(1))
	is.Equal(len(polys[0].Holes), 1)
	is.Equal(polys[0].Holes[0].ID, int64(2))
	is.Equal(polys[0].Area(), 80.0)
}

func TestResolveRelationSplitOuter(t *testing.T) {
	is := is.New(t)

	diag := NewDiagnostics()
	polys := ResolveRelation(relationOf(100,
		way(3, Outer, []Point{pt(10, 10), pt(0, 10), pt(0, 0)}),
		way(4, Outer, []Point{pt(0, 0), pt(10, 0), pt(10, 10)}),
	), diag)

	is.Equal(len(diag.Drain()), 0)
	is.Equal(len(polys), 1)
	is.Equal(polys[0].Outer.Sources, []int64{3, 4})
	is.Equal(polys[0].Area(), 100.0)
}

func TestResolveRelationOrphanedHole(t *testing.T) {
	is := is.New(t)

	diag := NewDiagnostics()
	polys := ResolveRelation(relationOf(100,
		way(1, Outer, rect(0, 0, 10, 10)),
		way(2, Inner, rect(20, 20, 22, 22)),
	), diag)

	is.Equal(diag.Count(OrphanedHole), 1)
	is.Equal(len(polys), 2)
	is.Equal(len(polys[0].Holes), 0)
	is.Equal(len(polys[1].Holes), 0)
}

func TestResolveRelationRoleMismatch(t *testing.T) {
	is := is.New(t)

	diag := NewDiagnostics()
	polys := ResolveRelation(relationOf(100,
		way(1, Outer, rect(0, 0, 10, 10)),
		way(2, Outer, rect(2, 2, 4, 4)),
	), diag)

	events := diag.Drain()
	is.Equal(len(events), 1)
	is.Equal(events[0].Kind, RoleMismatch)
	is.Equal(events[0].RelationID, int64(100))
	is.Equal(events[0].RingID, int64(2))

	is.Equal(len(polys), 1)
	is.Equal(len(polys[0].Holes), 1)
}

func TestNestRingsIsland(t *testing.T) {
	is := is.New(t)

	// A lake with an island with a pond.
	diag := NewDiagnostics()
	polys := NestRings(100, []RoledRing{
		{Ring: Ring{ID: 1, Points: rect(0, 0, 10, 10)}, Role: Outer},
		{Ring: Ring{ID: 2, Points: rect(2, 2, 8, 8)}, Role: Inner},
		{Ring: Ring{ID: 3, Points: rect(4, 4, 6, 6)}, Role: Outer},
	}, diag)

	is.Equal(len(diag.Drain()), 0)
	is.Equal(len(polys), 2)
	is.Equal(polys[0].ID, int64(1))
	is.Equal(len(polys[0].Holes), 1)
	is.Equal(polys[1].ID, int64(3))
	is.Equal(len(polys[1].Holes), 0)
	is.Equal(totalArea(polys), 100.0-36.0+4.0)
}
