package landmass

import (
	"fmt"
	"sort"
	"sync"
)

type Kind string

const (
	OpenRing            Kind = "open_ring"
	OrphanedHole        Kind = "orphaned_hole"
	RoleMismatch        Kind = "role_mismatch"
	BooleanRepairFailed Kind = "boolean_repair_failed"
	DegenerateDropped   Kind = "degenerate_dropped"
	DegenerateRing      Kind = "degenerate_ring"
	MalformedFragment   Kind = "malformed_fragment"
	AmbiguousEndpoint   Kind = "ambiguous_endpoint"
)

// Diagnostic is a recoverable problem found while building the landmass.
// Only the fields relevant to its Kind are set.
type Diagnostic struct {
	Kind        Kind    `json:"kind"`
	FragmentIDs []int64 `json:"fragment_ids,omitempty"`
	Endpoint    *Point  `json:"endpoint,omitempty"`
	RelationID  int64   `json:"relation_id,omitempty"`
	RingID      int64   `json:"ring_id,omitempty"`
	PolygonID   int64   `json:"polygon_id,omitempty"`
	Area        float64 `json:"area,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case OpenRing, AmbiguousEndpoint:
		if d.Endpoint != nil {
			return fmt.Sprintf("%s: fragments %v at (%.7f, %.7f)", d.Kind, d.FragmentIDs, d.Endpoint.X, d.Endpoint.Y)
		}
		return fmt.Sprintf("%s: fragments %v", d.Kind, d.FragmentIDs)
	case OrphanedHole, RoleMismatch:
		return fmt.Sprintf("%s: relation %d, ring %d", d.Kind, d.RelationID, d.RingID)
	case BooleanRepairFailed:
		return fmt.Sprintf("%s: polygon %d: %s", d.Kind, d.PolygonID, d.Reason)
	case DegenerateDropped:
		return fmt.Sprintf("%s: polygon %d (area %g)", d.Kind, d.PolygonID, d.Area)
	case DegenerateRing:
		return fmt.Sprintf("%s: ring %d, fragments %v", d.Kind, d.RingID, d.FragmentIDs)
	default:
		return fmt.Sprintf("%s: fragments %v: %s", d.Kind, d.FragmentIDs, d.Reason)
	}
}

// Diagnostics collects events across all pipeline stages. It is safe
// for concurrent use and is drained once when the run finishes.
type Diagnostics struct {
	mu     sync.Mutex
	events []Diagnostic
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

func (d *Diagnostics) Report(ev Diagnostic) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.events = append(d.events, ev)
	d.mu.Unlock()
}

// Drain returns all collected events in a stable order and empties the
// sink. Stages report concurrently, so arrival order is not kept.
func (d *Diagnostics) Drain() []Diagnostic {
	d.mu.Lock()
	out := d.events
	d.events = nil
	d.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].less(out[j])
	})
	return out
}

func (d Diagnostic) less(o Diagnostic) bool {
	if d.Kind != o.Kind {
		return d.Kind < o.Kind
	}
	for i := 0; i < len(d.FragmentIDs) && i < len(o.FragmentIDs); i++ {
		if d.FragmentIDs[i] != o.FragmentIDs[i] {
			return d.FragmentIDs[i] < o.FragmentIDs[i]
		}
	}
	if len(d.FragmentIDs) != len(o.FragmentIDs) {
		return len(d.FragmentIDs) < len(o.FragmentIDs)
	}
	if d.RelationID != o.RelationID {
		return d.RelationID < o.RelationID
	}
	if d.RingID != o.RingID {
		return d.RingID < o.RingID
	}
	if d.PolygonID != o.PolygonID {
		return d.PolygonID < o.PolygonID
	}
	if (d.Endpoint == nil) != (o.Endpoint == nil) {
		return d.Endpoint == nil
	}
	if d.Endpoint != nil && *d.Endpoint != *o.Endpoint {
		if d.Endpoint.X != o.Endpoint.X {
			return d.Endpoint.X < o.Endpoint.X
		}
		return d.Endpoint.Y < o.Endpoint.Y
	}
	if d.Area != o.Area {
		return d.Area < o.Area
	}
	return d.Reason < o.Reason
}

func (d *Diagnostics) Count(kind Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, ev := range d.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// CountByKind tallies events per kind.
func CountByKind(events []Diagnostic) map[Kind]int {
	counts := make(map[Kind]int)
	for _, ev := range events {
		counts[ev.Kind]++
	}
	return counts
}

// Kinds returns the kinds present in counts in a stable order.
func Kinds(counts map[Kind]int) []Kind {
	kinds := make([]Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
