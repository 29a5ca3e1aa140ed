package landmass

import (
	"sync"
	"testing"

	"github.com/cheekybits/is"
)

func TestDiagnostics(t *testing.T) {
	is := is.New(t)

	diag := NewDiagnostics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := OpenRing
			if i%2 == 0 {
				kind = OrphanedHole
			}
			diag.Report(Diagnostic{Kind: kind, RingID: int64(i)})
		}(i)
	}
	wg.Wait()

	is.Equal(diag.Count(OpenRing), 5)
	is.Equal(diag.Count(OrphanedHole), 5)

	events := diag.Drain()
	is.Equal(len(events), 10)
	is.Equal(len(diag.Drain()), 0)

	counts := CountByKind(events)
	is.Equal(counts[OpenRing], 5)
	is.Equal(Kinds(counts), []Kind{OpenRing, OrphanedHole})

	// A nil sink swallows reports.
	var none *Diagnostics
	none.Report(Diagnostic{Kind: OpenRing})
}

func TestDiagnosticString(t *testing.T) {
	is := is.New(t)

	at := pt(1.5, 2)
	d := Diagnostic{Kind: OpenRing, FragmentIDs: []int64{3, 4}, Endpoint: &at}
	is.Equal(d.String(), "open_ring: fragments [3 4] at (1.5000000, 2.0000000)")

	d = Diagnostic{Kind: RoleMismatch, RelationID: 10, RingID: 11}
	is.Equal(d.String(), "role_mismatch: relation 10, ring 11")
}

func TestDiagnosticsDrainOrder(t *testing.T) {
	is := is.New(t)

	diag := NewDiagnostics()
	diag.Report(Diagnostic{Kind: OrphanedHole, RelationID: 2, RingID: 5})
	diag.Report(Diagnostic{Kind: OpenRing, FragmentIDs: []int64{9}})
	diag.Report(Diagnostic{Kind: OrphanedHole, RelationID: 1, RingID: 7})
	diag.Report(Diagnostic{Kind: OpenRing, FragmentIDs: []int64{3, 4}})
	diag.Report(Diagnostic{Kind: OpenRing, FragmentIDs: []int64{3}})

	events := diag.Drain()
	is.Equal(len(events), 5)
	is.Equal(events[0].FragmentIDs, []int64{3})
	is.Equal(events[1].FragmentIDs, []int64{3, 4})
	is.Equal(events[2].FragmentIDs, []int64{9})
	is.Equal(events[3].RelationID, int64(1))
	is.Equal(events[4].RelationID, int64(2))
}
