package pbf

import (
	"context"
	"errors"
	"testing"

	"github.com/cheekybits/is"
	"github.com/rubenv/landmass/landmass"
)

func TestDecodeMissingFile(t *testing.T) {
	is := is.New(t)

	d := NewDecoder("does-not-exist.osm.pbf", NewMemoryStore())
	err := d.Decode(context.Background(), func(landmass.Feature) error {
		return nil
	})
	is.Err(err)

	var de *DecodeError
	is.True(errors.As(err, &de))
	is.Equal(de.File, "does-not-exist.osm.pbf")
}

func TestWanted(t *testing.T) {
	is := is.New(t)

	d := NewDecoder("", NewMemoryStore())
	is.False(d.wanted(nil))
	is.True(d.wanted(map[string]string{"highway": "primary"}))

	d.Wanted = landmass.NewConfig().Relevant
	is.False(d.wanted(map[string]string{"highway": "primary"}))
	is.True(d.wanted(map[string]string{"natural": "coastline"}))
}

func TestResolve(t *testing.T) {
	is := is.New(t)

	s := NewMemoryStore()
	s.AddNodes(nodes(1, 2))
	d := NewDecoder("", s)

	points, ok := d.resolve([]int64{1, 2})
	is.True(ok)
	is.Equal(len(points), 2)

	_, ok = d.resolve([]int64{1, 3})
	is.False(ok)
	is.Equal(d.missing, int64(1))
}
