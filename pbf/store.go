package pbf

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/omniscale/go-osm"
	"github.com/rubenv/landmass/landmass"
)

// Store caches node coordinates and way refs so ways can be resolved
// after their nodes, and relations after their ways, in one pass.
type Store interface {
	AddNodes(nodes []osm.Node) error
	AddWays(ways []osm.Way) error
	GetCoord(id int64) (landmass.Point, bool, error)
	GetRefs(id int64) ([]int64, bool, error)
	Close() error
}

type memStore struct {
	mu     sync.RWMutex
	coords map[int64][2]int32
	ways   map[int64][]int64
}

// NewMemoryStore keeps everything in memory, fine for regional extracts.
func NewMemoryStore() Store {
	return &memStore{
		coords: make(map[int64][2]int32),
		ways:   make(map[int64][]int64),
	}
}

func (s *memStore) AddNodes(nodes []osm.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nodes {
		s.coords[n.ID] = encodeCoord(n.Long, n.Lat)
	}
	return nil
}

func (s *memStore) AddWays(ways []osm.Way) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range ways {
		s.ways[w.ID] = w.Refs
	}
	return nil
}

func (s *memStore) GetCoord(id int64) (landmass.Point, bool, error) {
	s.mu.RLock()
	c, ok := s.coords[id]
	s.mu.RUnlock()
	if !ok {
		return landmass.Point{}, false, nil
	}
	return decodeCoord(c), true, nil
}

func (s *memStore) GetRefs(id int64) ([]int64, bool, error) {
	s.mu.RLock()
	refs, ok := s.ways[id]
	s.mu.RUnlock()
	return refs, ok, nil
}

func (s *memStore) Close() error {
	return nil
}

// Coordinates are kept at OSM's own 1e-7 degree precision.
func encodeCoord(lon, lat float64) [2]int32 {
	return [2]int32{
		int32(math.Round(lon * landmass.CoordScale)),
		int32(math.Round(lat * landmass.CoordScale)),
	}
}

func decodeCoord(c [2]int32) landmass.Point {
	return landmass.Point{
		X: float64(c[0]) / landmass.CoordScale,
		Y: float64(c[1]) / landmass.CoordScale,
	}
}

func nodeKey(id int64) []byte {
	buf := make([]byte, 13)
	copy(buf, "node/")
	binary.BigEndian.PutUint64(buf[5:], uint64(id))
	return buf
}

func wayKey(id int64) []byte {
	buf := make([]byte, 12)
	copy(buf, "way/")
	binary.BigEndian.PutUint64(buf[4:], uint64(id))
	return buf
}

func marshalCoord(c [2]int32) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf, uint32(c[0]))
	binary.BigEndian.PutUint32(buf[4:], uint32(c[1]))
	return buf
}

func unmarshalCoord(buf []byte) ([2]int32, bool) {
	if len(buf) != 8 {
		return [2]int32{}, false
	}
	return [2]int32{
		int32(binary.BigEndian.Uint32(buf)),
		int32(binary.BigEndian.Uint32(buf[4:])),
	}, true
}

// Refs are delta encoded varints; consecutive way nodes have close ids.
func marshalRefs(refs []int64) []byte {
	buf := make([]byte, 0, len(refs)*3)
	tmp := make([]byte, binary.MaxVarintLen64)
	prev := int64(0)
	for _, r := range refs {
		n := binary.PutVarint(tmp, r-prev)
		buf = append(buf, tmp[:n]...)
		prev = r
	}
	return buf
}

func unmarshalRefs(buf []byte) []int64 {
	refs := make([]int64, 0, len(buf)/2)
	prev := int64(0)
	for len(buf) > 0 {
		d, n := binary.Varint(buf)
		if n <= 0 {
			break
		}
		prev += d
		refs = append(refs, prev)
		buf = buf[n:]
	}
	return refs
}
