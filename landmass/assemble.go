package landmass

import "sort"

// MinRingPoints is the shortest closed sequence that can bound an area.
const MinRingPoints = 4

// Fragment is an ordered line piece of a larger boundary. Directed
// fragments (coastline) carry land on their left.
type Fragment struct {
	ID       int64
	Points   []Point
	Class    Class
	Directed bool
}

func (f Fragment) closed() bool {
	return len(f.Points) > 1 && f.Points[0].Equal(f.Points[len(f.Points)-1])
}

// Chain is a sequence of fragments that could not be closed.
type Chain struct {
	Points  []Point
	Sources []int64

	// Directed fragments used against their stored direction.
	Reversed int
	Forward  int
}

func (c Chain) Head() Point {
	return c.Points[0]
}

func (c Chain) Tail() Point {
	return c.Points[len(c.Points)-1]
}

type Assembly struct {
	Rings []Ring
	Open  []Chain
}

type endpoint struct {
	frag int
	tail bool
}

// endpointIndex maps a point to the unconsumed fragment ends at it.
type endpointIndex map[Key][]endpoint

func (idx endpointIndex) add(i int, f Fragment) {
	h, t := f.Points[0].Key(), f.Points[len(f.Points)-1].Key()
	idx[h] = append(idx[h], endpoint{frag: i})
	idx[t] = append(idx[t], endpoint{frag: i, tail: true})
}

func (idx endpointIndex) remove(i int, f Fragment) {
	for _, k := range []Key{f.Points[0].Key(), f.Points[len(f.Points)-1].Key()} {
		refs := idx[k]
		for j := 0; j < len(refs); j++ {
			if refs[j].frag == i {
				refs = append(refs[:j], refs[j+1:]...)
				j--
			}
		}
		if len(refs) == 0 {
			delete(idx, k)
		} else {
			idx[k] = refs
		}
	}
}

// match picks the fragment end to continue with at k. Ends with
// tail == preferTail keep the fragment's stored direction and win over
// the others; within a group the lowest arena slot (lowest id) wins.
func (idx endpointIndex) match(k Key, preferTail bool) (endpoint, []endpoint, bool) {
	refs := idx[k]
	if len(refs) == 0 {
		return endpoint{}, nil, false
	}

	best := -1
	for j, r := range refs {
		if best < 0 {
			best = j
			continue
		}
		b := refs[best]
		if (r.tail == preferTail) != (b.tail == preferTail) {
			if r.tail == preferTail {
				best = j
			}
			continue
		}
		if r.frag < b.frag {
			best = j
		}
	}
	return refs[best], refs, true
}

type chain struct {
	front    [][]Point
	back     []Point
	sources  []int64
	forward  int
	reversed int
}

func (c *chain) head() Point {
	if len(c.front) > 0 {
		return c.front[len(c.front)-1][0]
	}
	return c.back[0]
}

func (c *chain) tail() Point {
	return c.back[len(c.back)-1]
}

func (c *chain) closed() bool {
	return c.head().Equal(c.tail())
}

func (c *chain) count(f Fragment, flipped bool) {
	c.sources = append(c.sources, f.ID)
	if !f.Directed {
		return
	}
	if flipped {
		c.reversed++
	} else {
		c.forward++
	}
}

func (c *chain) appendFragment(f Fragment, flipped bool) {
	pts := f.Points
	if flipped {
		pts = reverse(pts)
	}
	c.back = append(c.back, pts[1:]...)
	c.count(f, flipped)
}

func (c *chain) prependFragment(f Fragment, flipped bool) {
	pts := f.Points
	if flipped {
		pts = reverse(pts)
	}
	c.front = append(c.front, pts[:len(pts)-1])
	c.count(f, flipped)
}

func (c *chain) points() []Point {
	n := len(c.back)
	for _, p := range c.front {
		n += len(p)
	}
	out := make([]Point, 0, n)
	for i := len(c.front) - 1; i >= 0; i-- {
		out = append(out, c.front[i]...)
	}
	return append(out, c.back...)
}

// AssembleRings joins fragments that share endpoints into closed rings.
// Chains that cannot be closed are reported as open_ring and returned
// separately; they never become rings.
func AssembleRings(fragments []Fragment, diag *Diagnostics) *Assembly {
	result := &Assembly{}

	arena := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if len(f.Points) < 2 {
			diag.Report(Diagnostic{
				Kind:        MalformedFragment,
				FragmentIDs: []int64{f.ID},
				Reason:      "fewer than 2 points",
			})
			continue
		}

		f.Points = dedupe(f.Points)
		switch {
		case len(f.Points) < 2:
			diag.Report(Diagnostic{
				Kind:        MalformedFragment,
				FragmentIDs: []int64{f.ID},
				Reason:      "all points identical",
			})
		case f.closed() && len(f.Points) < MinRingPoints:
			diag.Report(Diagnostic{
				Kind:        MalformedFragment,
				FragmentIDs: []int64{f.ID},
				Reason:      "closed fragment too short",
			})
		case f.closed():
			if r, ok := newRing(f.Points, []int64{f.ID}, diag); ok {
				result.Rings = append(result.Rings, r)
			}
		default:
			arena = append(arena, f)
		}
	}

	sort.SliceStable(arena, func(i, j int) bool { return arena[i].ID < arena[j].ID })

	idx := make(endpointIndex, 2*len(arena))
	for i, f := range arena {
		idx.add(i, f)
	}

	used := make([]bool, len(arena))
	take := func(i int) Fragment {
		used[i] = true
		idx.remove(i, arena[i])
		return arena[i]
	}

	for seed := range arena {
		if used[seed] {
			continue
		}

		f := take(seed)
		c := &chain{back: append([]Point(nil), f.Points...)}
		c.count(f, false)

		// Grow forward from the tail, then backward from the head.
		for !c.closed() {
			end := c.tail()
			ref, refs, ok := idx.match(end.Key(), false)
			if !ok {
				break
			}
			reportAmbiguous(diag, arena, refs, end)
			c.appendFragment(take(ref.frag), ref.tail)
		}
		for !c.closed() {
			start := c.head()
			ref, refs, ok := idx.match(start.Key(), true)
			if !ok {
				break
			}
			reportAmbiguous(diag, arena, refs, start)
			c.prependFragment(take(ref.frag), !ref.tail)
		}

		if c.closed() {
			if r, ok := newRing(c.points(), c.sources, diag); ok {
				result.Rings = append(result.Rings, r)
			}
			continue
		}

		open := Chain{
			Points:   c.points(),
			Sources:  sortedIDs(c.sources),
			Forward:  c.forward,
			Reversed: c.reversed,
		}
		tail := open.Tail()
		diag.Report(Diagnostic{
			Kind:        OpenRing,
			FragmentIDs: open.Sources,
			Endpoint:    &tail,
		})
		result.Open = append(result.Open, open)
	}

	sort.SliceStable(result.Rings, func(i, j int) bool { return result.Rings[i].ID < result.Rings[j].ID })
	return result
}

func reportAmbiguous(diag *Diagnostics, arena []Fragment, refs []endpoint, at Point) {
	if len(refs) < 2 {
		return
	}
	ids := make([]int64, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, arena[r.frag].ID)
	}
	diag.Report(Diagnostic{
		Kind:        AmbiguousEndpoint,
		FragmentIDs: sortedIDs(ids),
		Endpoint:    &at,
	})
}

// CloseArea turns a free-standing area way into a ring. Area ways are
// never joined with other ways.
func CloseArea(f Fragment, diag *Diagnostics) (Ring, bool) {
	points := dedupe(f.Points)
	if len(points) < 2 {
		diag.Report(Diagnostic{
			Kind:        MalformedFragment,
			FragmentIDs: []int64{f.ID},
			Reason:      "fewer than 2 points",
		})
		return Ring{}, false
	}
	if !points[0].Equal(points[len(points)-1]) {
		tail := points[len(points)-1]
		diag.Report(Diagnostic{
			Kind:        OpenRing,
			FragmentIDs: []int64{f.ID},
			Endpoint:    &tail,
		})
		return Ring{}, false
	}
	return newRing(points, []int64{f.ID}, diag)
}

// newRing normalizes a closed point sequence. Rings with fewer than 3
// distinct vertices or no area are reported and discarded.
func newRing(points []Point, sources []int64, diag *Diagnostics) (Ring, bool) {
	sources = sortedIDs(sources)
	r := Ring{
		ID:      sources[0],
		Points:  dedupe(points),
		Sources: sources,
	}
	// Snap the closing point so first == last holds exactly.
	r.Points[len(r.Points)-1] = r.Points[0]

	if len(r.Points) < MinRingPoints || r.distinct() < 3 || r.Area() == 0 {
		diag.Report(Diagnostic{
			Kind:        DegenerateRing,
			RingID:      r.ID,
			FragmentIDs: sources,
		})
		return Ring{}, false
	}
	return r, true
}
