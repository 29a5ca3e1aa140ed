package landmass

import (
	"errors"
	"math"
	"sort"

	"github.com/paulsmith/gogeos/geos"
	"golang.org/x/sync/errgroup"
)

var errInvalidResult = errors.New("invalid result geometry")

type binaryOp func(a, b *geos.Geometry) (*geos.Geometry, error)

var (
	unionOp        binaryOp = (*geos.Geometry).Union
	differenceOp   binaryOp = (*geos.Geometry).Difference
	intersectionOp binaryOp = (*geos.Geometry).Intersection
)

// Engine runs GEOS boolean operations over polygon sets. Operations that
// fail or produce invalid geometry are retried on repaired operands
// (Buffer(0), then buffer-unbuffer with a doubling epsilon); inputs that
// still fail are dropped and reported as boolean_repair_failed.
type Engine struct {
	epsilon  float64
	attempts int
	workers  int
	diag     *Diagnostics
}

func NewEngine(config *Config, diag *Diagnostics) *Engine {
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		epsilon:  config.RepairEpsilon,
		attempts: config.RepairAttempts,
		workers:  workers,
		diag:     diag,
	}
}

func (e *Engine) acceptable(g *geos.Geometry, allowEmpty bool) bool {
	valid, err := g.IsValid()
	if err != nil || !valid {
		return false
	}
	return allowEmpty || area(g) > 0
}

// variant returns the repair of g for the given round. Round 0 is
// Buffer(0); round n > 0 buffers out and back in by epsilon*2^(n-1).
func (e *Engine) variant(g *geos.Geometry, round int) (*geos.Geometry, error) {
	if round == 0 {
		return g.Buffer(0)
	}
	eps := e.epsilon * math.Pow(2, float64(round-1))
	grown, err := g.Buffer(eps)
	if err != nil {
		return nil, err
	}
	return grown.Buffer(-eps)
}

func (e *Engine) repair(g *geos.Geometry, allowEmpty bool) (*geos.Geometry, error) {
	if e.acceptable(g, allowEmpty) {
		return g, nil
	}
	var err error
	for round := 0; round <= e.attempts; round++ {
		var r *geos.Geometry
		r, err = e.variant(g, round)
		if err == nil && e.acceptable(r, allowEmpty) {
			return r, nil
		}
	}
	if err == nil {
		err = errInvalidResult
	}
	return nil, err
}

func (e *Engine) combine(op binaryOp, a, b *geos.Geometry, allowEmpty bool) (*geos.Geometry, error) {
	r, err := op(a, b)
	if err == nil && e.acceptable(r, allowEmpty) {
		return r, nil
	}
	var ra, rb *geos.Geometry
	for round := 0; round <= e.attempts; round++ {
		ra, err = e.variant(a, round)
		if err != nil {
			continue
		}
		rb, err = e.variant(b, round)
		if err != nil {
			continue
		}
		r, err = op(ra, rb)
		if err == nil && e.acceptable(r, allowEmpty) {
			return r, nil
		}
	}
	if err == nil {
		err = errInvalidResult
	}
	return nil, err
}

func (e *Engine) failed(id int64, err error) {
	e.diag.Report(Diagnostic{
		Kind:      BooleanRepairFailed,
		PolygonID: id,
		Reason:    err.Error(),
	})
}

// geometry converts p, repairing it when GEOS considers it invalid.
func (e *Engine) geometry(p Polygon) (*geos.Geometry, bool) {
	g, err := PolygonToGeos(p)
	if err == nil {
		g, err = e.repair(g, false)
	}
	if err != nil {
		e.failed(p.ID, err)
		return nil, false
	}
	return g, true
}

// Union merges polygons into a set of disjoint polygons. Inputs are
// combined in ascending id order, one bbox-connected component per
// worker.
func (e *Engine) Union(polys []Polygon) []Polygon {
	sorted := append([]Polygon(nil), polys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	groups := components(sorted)
	results := make([][]Polygon, len(groups))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			members := make([]Polygon, len(group))
			for j, k := range group {
				members[j] = sorted[k]
			}
			results[i] = e.unionComponent(members)
			return nil
		})
	}
	g.Wait()

	return renumber(results)
}

func (e *Engine) unionComponent(polys []Polygon) []Polygon {
	geoms := make([]*geos.Geometry, 0, len(polys))
	valid := make([]Polygon, 0, len(polys))
	for _, p := range polys {
		g, ok := e.geometry(p)
		if !ok {
			continue
		}
		geoms = append(geoms, g)
		valid = append(valid, p)
	}
	if len(geoms) == 0 {
		return nil
	}

	acc := geoms[0]
	if len(geoms) > 1 {
		acc = nil
		c, err := collect(geoms)
		if err == nil {
			u, err := c.UnaryUnion()
			if err == nil && e.acceptable(u, false) {
				acc = u
			}
		}
	}

	// Fall back to folding one polygon at a time so a failure can be
	// pinned on a single input. The collection owns the geometries
	// built above, so the fold converts again.
	if acc == nil {
		for _, p := range valid {
			g, ok := e.geometry(p)
			if !ok {
				continue
			}
			if acc == nil {
				acc = g
				continue
			}
			u, err := e.combine(unionOp, acc, g, false)
			if err != nil {
				e.failed(p.ID, err)
				continue
			}
			acc = u
		}
		if acc == nil {
			return nil
		}
	}

	out, err := PolygonsFromGeos(acc)
	if err != nil {
		e.failed(valid[0].ID, err)
		return nil
	}
	return out
}

// Difference subtracts water from land. Land polygons that cannot be
// converted even after repair are dropped.
func (e *Engine) Difference(land, water []Polygon) []Polygon {
	if len(water) == 0 {
		return land
	}

	waterGeoms := make([]*geos.Geometry, len(water))
	for i, w := range water {
		if g, ok := e.geometry(w); ok {
			waterGeoms[i] = g
		}
	}
	idx := newBoxIndex(water)

	results := make([][]Polygon, len(land))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, p := range land {
		i, p := i, p
		g.Go(func() error {
			results[i] = e.subtract(p, idx.Query(p.Bounds()), water, waterGeoms)
			return nil
		})
	}
	g.Wait()

	return renumber(results)
}

// subtract removes the candidate water from p. A water polygon that
// cannot be subtracted even after repair is reported and skipped; the
// land keeps everything subtracted so far.
func (e *Engine) subtract(p Polygon, candidates []int, water []Polygon, geoms []*geos.Geometry) []Polygon {
	if len(candidates) == 0 {
		return []Polygon{p}
	}

	acc, ok := e.geometry(p)
	if !ok {
		return nil
	}
	for _, c := range candidates {
		if geoms[c] == nil {
			continue
		}
		d, err := e.combine(differenceOp, acc, geoms[c], true)
		if err != nil {
			e.failed(water[c].ID, err)
			continue
		}
		acc = d
	}

	out, err := PolygonsFromGeos(acc)
	if err != nil {
		e.failed(p.ID, err)
		return nil
	}
	return out
}

// Clip intersects every polygon with boundary.
func (e *Engine) Clip(polys []Polygon, boundary Polygon) []Polygon {
	b, ok := e.geometry(boundary)
	if !ok {
		return polys
	}
	prepared := geos.PrepareGeometry(b)
	bounds := boundary.Bounds()

	results := make([][]Polygon, len(polys))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, p := range polys {
		i, p := i, p
		g.Go(func() error {
			if !bounds.Intersects(p.Bounds()) {
				return nil
			}
			if bounds.Contains(p.Bounds()) && covers(prepared, p) {
				results[i] = []Polygon{p}
				return nil
			}

			pg, ok := e.geometry(p)
			if !ok {
				return nil
			}
			r, err := e.combine(intersectionOp, pg, b, true)
			if err != nil {
				e.failed(p.ID, err)
				return nil
			}
			out, err := PolygonsFromGeos(r)
			if err != nil {
				e.failed(p.ID, err)
				return nil
			}
			results[i] = out
			return nil
		})
	}
	g.Wait()

	return renumber(results)
}

func covers(boundary *geos.PGeometry, p Polygon) bool {
	g, err := ringToGeos(p.Outer)
	if err != nil {
		return false
	}
	c, err := boundary.Contains(g)
	return err == nil && c
}

// renumber flattens grouped results in order and assigns sequential ids
// starting at 1.
func renumber(groups [][]Polygon) []Polygon {
	out := make([]Polygon, 0)
	for _, group := range groups {
		out = append(out, group...)
	}
	for i := range out {
		out[i].ID = int64(i + 1)
	}
	return out
}
