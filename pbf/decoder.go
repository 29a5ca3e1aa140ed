package pbf

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/cheggaaa/pb"
	"github.com/omniscale/go-osm"
	osmpbf "github.com/omniscale/go-osm/parser/pbf"
	"github.com/rubenv/landmass/landmass"
	"golang.org/x/sync/errgroup"
)

// DecodeError is returned when the input cannot be read or parsed.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder streams the ways of an .osm.pbf file as landmass features.
// Free-standing ways are emitted once their nodes are known, relation
// members once the relation is read. Nothing is read twice.
type Decoder struct {
	File  string
	Store Store

	// Wanted selects the ways and relations to resolve. Nil selects
	// everything that carries tags.
	Wanted func(tags landmass.Tags) bool

	// Progress shows a progress bar over the bytes read.
	Progress bool

	mu      sync.Mutex
	err     error
	nodes   int64
	ways    int64
	members int64
	missing int64
	emitted int64
}

func NewDecoder(file string, store Store) *Decoder {
	return &Decoder{
		File:  file,
		Store: store,
	}
}

func (d *Decoder) wanted(tags osm.Tags) bool {
	if len(tags) == 0 {
		return false
	}
	if d.Wanted == nil {
		return true
	}
	return d.Wanted(landmass.Tags(tags))
}

func (d *Decoder) fail(err error) {
	d.mu.Lock()
	if d.err == nil {
		d.err = err
	}
	d.mu.Unlock()
}

func (d *Decoder) countMissing() {
	d.mu.Lock()
	d.missing++
	d.mu.Unlock()
}

func (d *Decoder) failed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err != nil
}

func (d *Decoder) Decode(ctx context.Context, fn func(landmass.Feature) error) error {
	f, err := os.Open(d.File)
	if err != nil {
		return &DecodeError{File: d.File, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if d.Progress {
		fi, err := f.Stat()
		if err != nil {
			return &DecodeError{File: d.File, Err: err}
		}
		bar := pb.New64(fi.Size()).SetUnits(pb.U_BYTES)
		bar.Start()
		defer bar.Finish()
		r = bar.NewProxyReader(f)
	}

	var emitMu sync.Mutex
	emit := func(feat landmass.Feature) {
		if d.failed() {
			return
		}
		emitMu.Lock()
		defer emitMu.Unlock()
		d.emitted++
		if err := fn(feat); err != nil {
			d.fail(err)
		}
	}

	coords := make(chan []osm.Node, 16)
	nodes := make(chan []osm.Node, 16)
	ways := make(chan []osm.Way, 16)
	relations := make(chan []osm.Relation, 16)

	// A nil batch marks the end of a section: ways are only resolved
	// once all nodes are stored, relations once all ways are.
	var nodesDone, waysDone sync.WaitGroup
	parser := osmpbf.New(r, osmpbf.Config{
		Coords:    coords,
		Nodes:     nodes,
		Ways:      ways,
		Relations: relations,
		OnFirstWay: func() {
			nodesDone.Add(2)
			coords <- nil
			nodes <- nil
			nodesDone.Wait()
		},
		OnFirstRelation: func() {
			waysDone.Add(1)
			ways <- nil
			waysDone.Wait()
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := parser.Parse(gctx)
		if err != nil {
			return &DecodeError{File: d.File, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		d.importNodes(gctx, coords, nodes, &nodesDone)
		return nil
	})
	g.Go(func() error {
		d.importWays(gctx, ways, &waysDone, emit)
		return nil
	})
	g.Go(func() error {
		d.importRelations(gctx, relations, emit)
		return nil
	})
	err = g.Wait()
	if err == nil {
		err = d.err
	}
	if err != nil {
		return err
	}

	log.Printf("Decoded %d nodes, %d ways, %d relation members; emitted %d features", d.nodes, d.ways, d.members, d.emitted)
	if d.missing > 0 {
		log.Printf("Skipped %d ways with missing nodes", d.missing)
	}
	return nil
}

func (d *Decoder) importNodes(ctx context.Context, coordChan, nodeChan chan []osm.Node, done *sync.WaitGroup) {
	for coordChan != nil || nodeChan != nil {
		var batch []osm.Node
		select {
		case <-ctx.Done():
			return
		case arr, ok := <-coordChan:
			if !ok {
				coordChan = nil
				continue
			}
			batch = arr
		case arr, ok := <-nodeChan:
			if !ok {
				nodeChan = nil
				continue
			}
			batch = arr
		}

		if batch == nil {
			done.Done()
			continue
		}
		if d.failed() {
			continue
		}

		err := d.Store.AddNodes(batch)
		if err != nil {
			d.fail(fmt.Errorf("store nodes: %w", err))
		}
		d.nodes += int64(len(batch))
	}
}

func (d *Decoder) importWays(ctx context.Context, ways chan []osm.Way, done *sync.WaitGroup, emit func(landmass.Feature)) {
	for {
		var batch []osm.Way
		select {
		case <-ctx.Done():
			return
		case arr, ok := <-ways:
			if !ok {
				return
			}
			batch = arr
		}

		if batch == nil {
			done.Done()
			continue
		}
		if d.failed() {
			continue
		}

		err := d.Store.AddWays(batch)
		if err != nil {
			d.fail(fmt.Errorf("store ways: %w", err))
			continue
		}
		d.ways += int64(len(batch))

		for _, w := range batch {
			if !d.wanted(w.Tags) {
				continue
			}
			points, ok := d.resolve(w.Refs)
			if !ok {
				continue
			}
			emit(landmass.Feature{
				ID:     w.ID,
				Tags:   landmass.Tags(w.Tags),
				Points: points,
			})
		}
	}
}

func (d *Decoder) importRelations(ctx context.Context, relations chan []osm.Relation, emit func(landmass.Feature)) {
	for {
		var batch []osm.Relation
		select {
		case <-ctx.Done():
			return
		case arr, ok := <-relations:
			if !ok {
				return
			}
			batch = arr
		}

		if d.failed() {
			continue
		}

		for _, rel := range batch {
			if d.failed() {
				break
			}
			if !landmass.IsMultipolygon(landmass.Tags(rel.Tags)) || !d.wanted(rel.Tags) {
				continue
			}

			for _, m := range rel.Members {
				if m.Type != osm.WayMember {
					continue
				}
				refs, ok, err := d.Store.GetRefs(m.ID)
				if err != nil {
					d.fail(fmt.Errorf("load way %d: %w", m.ID, err))
					break
				}
				if !ok {
					d.countMissing()
					continue
				}
				points, ok := d.resolve(refs)
				if !ok {
					continue
				}

				d.members++
				emit(landmass.Feature{
					ID:     m.ID,
					Points: points,
					Member: &landmass.Membership{
						Relation: rel.ID,
						Tags:     landmass.Tags(rel.Tags),
						Role:     m.Role,
					},
				})
			}
		}
	}
}

// resolve looks up the coordinates of refs. Ways with missing nodes
// (cut off by the extract) are skipped and counted.
func (d *Decoder) resolve(refs []int64) ([]landmass.Point, bool) {
	points := make([]landmass.Point, 0, len(refs))
	for _, ref := range refs {
		p, ok, err := d.Store.GetCoord(ref)
		if err != nil {
			d.fail(fmt.Errorf("load node %d: %w", ref, err))
			return nil, false
		}
		if !ok {
			d.countMissing()
			return nil, false
		}
		points = append(points, p)
	}
	return points, true
}
