package landmass

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulsmith/gogeos/geos"
)

type Member struct {
	Fragment Fragment
	Role     Role
}

// Relation is a multipolygon relation with its member ways.
type Relation struct {
	ID      int64
	Class   Class
	Members []Member
}

// RoledRing is a closed ring with the role it was declared with.
type RoledRing struct {
	Ring
	Role Role
}

// ResolveRelation assembles the relation's member ways into rings, per
// declared role, and nests them into polygons.
func ResolveRelation(rel *Relation, diag *Diagnostics) []Polygon {
	var outer, inner []Fragment
	for _, m := range rel.Members {
		if m.Role == Inner {
			inner = append(inner, m.Fragment)
		} else {
			outer = append(outer, m.Fragment)
		}
	}

	rings := make([]RoledRing, 0)
	for _, r := range AssembleRings(outer, diag).Rings {
		rings = append(rings, RoledRing{Ring: r, Role: Outer})
	}
	for _, r := range AssembleRings(inner, diag).Rings {
		rings = append(rings, RoledRing{Ring: r, Role: Inner})
	}

	return NestRings(rel.ID, rings, diag)
}

type nestedRing struct {
	RoledRing
	area   float64
	bounds Bounds
	prep   *geos.PGeometry
	parent int
	depth  int
	index  int
}

func (n *nestedRing) Bounds() rtreego.Rect {
	point := rtreego.Point{n.bounds.MinX, n.bounds.MinY}

	// R-tree requires non-zero dimensions
	const epsilon = 1e-9
	lengths := []float64{
		math.Max(n.bounds.MaxX-n.bounds.MinX, epsilon),
		math.Max(n.bounds.MaxY-n.bounds.MinY, epsilon),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// NestRings resolves nesting structurally: every ring becomes a hole of
// the smallest ring containing it when that one is a shell, and a shell
// otherwise. Declared roles only drive diagnostics.
func NestRings(relation int64, rings []RoledRing, diag *Diagnostics) []Polygon {
	nodes := make([]*nestedRing, len(rings))
	for i, r := range rings {
		nodes[i] = &nestedRing{
			RoledRing: r,
			area:      math.Abs(r.Area()),
			bounds:    r.Bounds(),
			parent:    -1,
		}
	}

	// Containers are always larger than what they contain.
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].area != nodes[j].area {
			return nodes[i].area > nodes[j].area
		}
		return nodes[i].ID < nodes[j].ID
	})

	tree := rtreego.NewTree(2, 25, 50)
	for i, n := range nodes {
		n.index = i

		var parent *nestedRing
		for _, s := range tree.SearchIntersect(n.Bounds()) {
			c := s.(*nestedRing)
			if !c.bounds.Contains(n.bounds) {
				continue
			}
			if parent != nil && c.area >= parent.area {
				continue
			}
			if c.contains(n) {
				parent = c
			}
		}

		if parent != nil {
			n.parent = parent.index
			n.depth = parent.depth + 1
		}
		tree.Insert(n)
	}

	shells := make(map[int]*Polygon)
	order := make([]int, 0)
	for _, n := range nodes {
		shell := n.depth%2 == 0
		switch {
		case n.Role == Inner && n.parent < 0:
			diag.Report(Diagnostic{
				Kind:       OrphanedHole,
				RelationID: relation,
				RingID:     n.ID,
			})
		case n.Role == Inner && shell, n.Role == Outer && !shell:
			diag.Report(Diagnostic{
				Kind:       RoleMismatch,
				RelationID: relation,
				RingID:     n.ID,
			})
		}

		if shell {
			shells[n.index] = &Polygon{ID: n.ID, Outer: n.Ring}
			order = append(order, n.index)
			continue
		}
		p := shells[n.parent]
		p.Holes = append(p.Holes, n.Ring)
	}

	result := make([]Polygon, 0, len(order))
	for _, i := range order {
		result = append(result, *shells[i])
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (n *nestedRing) contains(o *nestedRing) bool {
	if n.prep == nil {
		g, err := ringToGeos(n.Ring)
		if err != nil {
			return false
		}
		n.prep = geos.PrepareGeometry(g)
	}

	g, err := ringToGeos(o.Ring)
	if err != nil {
		return false
	}
	c, err := n.prep.Contains(g)
	if err != nil {
		return false
	}
	return c
}
