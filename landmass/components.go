package landmass

import (
	"sort"

	"github.com/Workiva/go-datastructures/augmentedtree"
)

// box is a polygon bounding box in fixed-point coordinates, stored in
// a two-dimensional interval tree. Dimension 1 is X, dimension 2 is Y.
type box struct {
	id       uint64
	min, max Key
}

func newBox(id int, b Bounds) *box {
	lo := Point{X: b.MinX, Y: b.MinY}.Key()
	hi := Point{X: b.MaxX, Y: b.MaxY}.Key()
	// Widen by one unit so boxes that merely touch still overlap.
	return &box{
		id:  uint64(id),
		min: Key{X: lo.X - 1, Y: lo.Y - 1},
		max: Key{X: hi.X + 1, Y: hi.Y + 1},
	}
}

func (b *box) LowAtDimension(d uint64) int64 {
	if d == 1 {
		return b.min.X
	}
	return b.min.Y
}

func (b *box) HighAtDimension(d uint64) int64 {
	if d == 1 {
		return b.max.X
	}
	return b.max.Y
}

func (b *box) OverlapsAtDimension(i augmentedtree.Interval, d uint64) bool {
	return b.HighAtDimension(d) > i.LowAtDimension(d) &&
		b.LowAtDimension(d) < i.HighAtDimension(d)
}

func (b *box) ID() uint64 {
	return b.id
}

// boxIndex answers bounding box overlap queries over a fixed polygon set.
type boxIndex struct {
	tree augmentedtree.Tree
}

func newBoxIndex(polys []Polygon) *boxIndex {
	tree := augmentedtree.New(2)
	for i, p := range polys {
		tree.Add(newBox(i, p.Bounds()))
	}
	return &boxIndex{tree: tree}
}

// Query returns the indexes of polygons whose box overlaps b, ascending.
func (idx *boxIndex) Query(b Bounds) []int {
	hits := idx.tree.Query(newBox(0, b))
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, int(h.ID()))
	}
	hits.Dispose()
	sort.Ints(out)
	return out
}

// components groups polygons into sets whose bounding boxes are
// connected. Polygons in different groups cannot intersect. Groups are
// ordered by their lowest member; members keep input order.
func components(polys []Polygon) [][]int {
	parent := make([]int, len(polys))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	idx := newBoxIndex(polys)
	for i, p := range polys {
		for _, j := range idx.Query(p.Bounds()) {
			a, b := find(i), find(j)
			if a == b {
				continue
			}
			if a < b {
				parent[b] = a
			} else {
				parent[a] = b
			}
		}
	}

	groups := make(map[int][]int)
	roots := make([]int, 0)
	for i := range polys {
		r := find(i)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], i)
	}

	sort.Ints(roots)
	result := make([][]int, len(roots))
	for i, r := range roots {
		result[i] = groups[r]
	}
	return result
}
