package landmass

import (
	"math"
	"sort"
)

// boundary is a counter-clockwise clip ring measured by arc length.
type boundary struct {
	points    []Point
	pos       []float64
	perimeter float64
}

func newBoundary(r Ring) *boundary {
	points := r.Points
	if isClockwise(points) {
		points = reverse(points)
	}

	b := &boundary{
		points: points,
		pos:    make([]float64, len(points)),
	}
	for i := 1; i < len(points); i++ {
		b.pos[i] = b.pos[i-1] + dist(points[i-1], points[i])
	}
	b.perimeter = b.pos[len(points)-1]
	return b
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// project returns the closest point on the boundary to p and its arc
// position.
func (b *boundary) project(p Point) (Point, float64) {
	best := math.Inf(1)
	var proj Point
	var pos float64
	for i := 0; i < len(b.points)-1; i++ {
		a, c := b.points[i], b.points[i+1]
		dx, dy := c.X-a.X, c.Y-a.Y
		l2 := dx*dx + dy*dy
		t := 0.0
		if l2 > 0 {
			t = ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
			t = math.Max(0, math.Min(1, t))
		}
		q := Point{X: a.X + t*dx, Y: a.Y + t*dy}
		if d := dist(p, q); d < best {
			best = d
			proj = q
			pos = b.pos[i] + t*math.Sqrt(l2)
		}
	}
	return proj, pos
}

// ahead is the arc distance walking counter-clockwise from a to b.
func (b *boundary) ahead(from, to float64) float64 {
	d := math.Mod(to-from, b.perimeter)
	if d < 0 {
		d += b.perimeter
	}
	return d
}

// between returns the boundary vertices strictly after from and before
// to, walking counter-clockwise.
func (b *boundary) between(from, to float64) []Point {
	span := b.ahead(from, to)
	type vertex struct {
		p Point
		d float64
	}
	vs := make([]vertex, 0)
	for i := 0; i < len(b.points)-1; i++ {
		d := b.ahead(from, b.pos[i])
		if d > 0 && d < span {
			vs = append(vs, vertex{b.points[i], d})
		}
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].d < vs[j].d })

	out := make([]Point, len(vs))
	for i, v := range vs {
		out[i] = v.p
	}
	return out
}

type boundaryChain struct {
	points   []Point
	sources  []int64
	entry    Point
	entryPos float64
	exit     Point
	exitPos  float64
}

// CloseAlongBoundary turns open coastline chains into land rings by
// following the clip boundary from each chain's exit to the next chain
// entry, counter-clockwise. Land lies left of the coastline direction.
func CloseAlongBoundary(chains []Chain, clip Ring, diag *Diagnostics) []Ring {
	if len(chains) == 0 || len(clip.Points) < MinRingPoints {
		return nil
	}
	b := newBoundary(clip)
	if b.perimeter == 0 {
		return nil
	}

	cs := make([]*boundaryChain, len(chains))
	for i, c := range chains {
		points := c.Points
		// Trust the majority of directed fragments for the chain's
		// direction.
		if c.Reversed > c.Forward {
			points = reverse(points)
		}
		bc := &boundaryChain{
			points:  points,
			sources: c.Sources,
		}
		bc.entry, bc.entryPos = b.project(points[0])
		bc.exit, bc.exitPos = b.project(points[len(points)-1])
		cs[i] = bc
	}

	used := make([]bool, len(cs))
	rings := make([]Ring, 0)
	for i := range cs {
		if used[i] {
			continue
		}

		points := make([]Point, 0)
		sources := make([]int64, 0)
		cur := i
		for {
			used[cur] = true
			c := cs[cur]
			points = append(points, c.entry)
			points = append(points, c.points...)
			points = append(points, c.exit)
			sources = append(sources, c.sources...)

			next := -1
			best := math.Inf(1)
			for j, o := range cs {
				if used[j] && j != i {
					continue
				}
				if d := b.ahead(c.exitPos, o.entryPos); d < best {
					best = d
					next = j
				}
			}

			points = append(points, b.between(c.exitPos, cs[next].entryPos)...)
			if next == i {
				break
			}
			cur = next
		}
		points = append(points, points[0])

		if r, ok := newRing(points, sources, diag); ok {
			rings = append(rings, r)
		}
	}
	return rings
}
