package landmass

import (
	"math"
	"sort"
)

// CoordScale is the fixed-point scale used to compare endpoints.
const CoordScale = 1e7

// Point is a longitude (X) / latitude (Y) pair in degrees.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Key is the fixed-point identity of a point. Two points are the same
// endpoint iff their keys are equal.
type Key struct {
	X, Y int64
}

func (p Point) Key() Key {
	return Key{
		X: int64(math.Round(p.X * CoordScale)),
		Y: int64(math.Round(p.Y * CoordScale)),
	}
}

func (p Point) Equal(o Point) bool {
	return p.Key() == o.Key()
}

type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

func (b Bounds) Contains(o Bounds) bool {
	return b.MinX <= o.MinX && b.MinY <= o.MinY && b.MaxX >= o.MaxX && b.MaxY >= o.MaxY
}

func boundsOf(points []Point) Bounds {
	b := Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
	for _, p := range points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Ring is a closed sequence of points (first == last).
type Ring struct {
	ID      int64
	Points  []Point
	Sources []int64
}

// Area returns the signed planar area, positive for counter-clockwise rings.
func (r Ring) Area() float64 {
	return shoelace(r.Points)
}

func (r Ring) Clockwise() bool {
	return isClockwise(r.Points)
}

func (r Ring) Bounds() Bounds {
	return boundsOf(r.Points)
}

func (r Ring) Reversed() Ring {
	return Ring{
		ID:      r.ID,
		Points:  reverse(r.Points),
		Sources: r.Sources,
	}
}

// distinct counts the unique vertices of the ring.
func (r Ring) distinct() int {
	seen := make(map[Key]struct{}, len(r.Points))
	for _, p := range r.Points {
		seen[p.Key()] = struct{}{}
	}
	return len(seen)
}

// Polygon is an outer ring with zero or more holes.
type Polygon struct {
	ID    int64
	Outer Ring
	Holes []Ring
}

// Area returns the planar area of the outer ring minus its holes.
func (p Polygon) Area() float64 {
	a := math.Abs(p.Outer.Area())
	for _, h := range p.Holes {
		a -= math.Abs(h.Area())
	}
	return a
}

func (p Polygon) Bounds() Bounds {
	return p.Outer.Bounds()
}

// Normalized returns a copy with a counter-clockwise outer ring and
// clockwise holes.
func (p Polygon) Normalized() Polygon {
	out := Polygon{ID: p.ID, Outer: p.Outer}
	if out.Outer.Clockwise() {
		out.Outer = out.Outer.Reversed()
	}
	for _, h := range p.Holes {
		if !h.Clockwise() {
			h = h.Reversed()
		}
		out.Holes = append(out.Holes, h)
	}
	return out
}

func shoelace(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func isClockwise(points []Point) bool {
	sum := 0.0
	for i, p := range points[:len(points)-1] {
		next := points[i+1]
		sum += (next.X - p.X) * (next.Y + p.Y)
	}
	return sum >= 0
}

func reverse(points []Point) []Point {
	c := make([]Point, len(points))
	for i := 0; i < len(points); i++ {
		c[i] = points[len(points)-i-1]
	}
	return c
}

// dedupe removes consecutive duplicate points.
func dedupe(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for i, p := range points {
		if i > 0 && p.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// lowestVertex returns the lexicographically smallest vertex (X, then Y).
func lowestVertex(points []Point) Point {
	best := points[0]
	for _, p := range points[1:] {
		if p.X < best.X || (p.X == best.X && p.Y < best.Y) {
			best = p
		}
	}
	return best
}

func sortedIDs(ids []int64) []int64 {
	out := append([]int64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
