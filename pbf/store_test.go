package pbf

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/cheekybits/is"
	"github.com/omniscale/go-osm"
)

func TestRefs(t *testing.T) {
	is := is.New(t)

	refs := []int64{1000000, 1000001, 999999, 4, 6000000000, -17}
	is.Equal(unmarshalRefs(marshalRefs(refs)), refs)
	is.Equal(len(unmarshalRefs(marshalRefs(nil))), 0)
}

func TestCoords(t *testing.T) {
	is := is.New(t)

	c := encodeCoord(-122.4194155, 37.7749295)
	p := decodeCoord(c)
	is.Equal(p.Key().X, int64(-1224194155))
	is.Equal(p.Key().Y, int64(377749295))

	buf := marshalCoord(c)
	is.Equal(len(buf), 8)
	c2, ok := unmarshalCoord(buf)
	is.True(ok)
	is.Equal(c2, c)

	_, ok = unmarshalCoord(buf[:4])
	is.False(ok)
}

func TestKeys(t *testing.T) {
	is := is.New(t)

	is.Equal(string(nodeKey(1)[:5]), "node/")
	is.Equal(string(wayKey(1)[:4]), "way/")
	is.NotEqual(string(nodeKey(1)), string(nodeKey(2)))
}

func testStore(t *testing.T, s Store) {
	is := is.New(t)

	err := s.AddNodes([]osm.Node{
		{Element: osm.Element{ID: 1}, Long: 4.5, Lat: 51.25},
		{Element: osm.Element{ID: 2}, Long: -0.1, Lat: 0.1},
	})
	is.NoErr(err)

	err = s.AddWays([]osm.Way{
		{Element: osm.Element{ID: 10}, Refs: []int64{1, 2, 1}},
	})
	is.NoErr(err)

	p, ok, err := s.GetCoord(1)
	is.NoErr(err)
	is.True(ok)
	is.Equal(p.X, 4.5)
	is.Equal(p.Y, 51.25)

	_, ok, err = s.GetCoord(3)
	is.NoErr(err)
	is.False(ok)

	refs, ok, err := s.GetRefs(10)
	is.NoErr(err)
	is.True(ok)
	is.Equal(refs, []int64{1, 2, 1})

	_, ok, err = s.GetRefs(11)
	is.NoErr(err)
	is.False(ok)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestRocksStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping RocksDB store in short mode")
	}

	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	s, err := NewRocksStore(folder)
	is.NoErr(err)
	defer s.Close()
	testStore(t, s)
}

func nodes(ids ...int64) []osm.Node {
	out := make([]osm.Node, len(ids))
	for i, id := range ids {
		out[i] = osm.Node{Element: osm.Element{ID: id}, Long: float64(id), Lat: float64(id) / 2}
	}
	return out
}
